// Package health tracks backend reachability. The probe is advisory and
// display-only: an unreachable backend never blocks session or collection
// operations, which fail and report on their own.
package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/recipedeck/internal/client/api"
	"github.com/dmitrijs2005/recipedeck/internal/logging"
)

const checkTimeout = 3 * time.Second

type Probe struct {
	client    api.Client
	log       logging.Logger
	reachable atomic.Bool
}

func NewProbe(client api.Client, log logging.Logger) *Probe {
	return &Probe{client: client, log: log.With("component", "health")}
}

// Reachable returns the last observed state.
func (p *Probe) Reachable() bool {
	return p.reachable.Load()
}

// Check performs one reachability probe. Any failure, network or non-success
// response alike, maps to unreachable.
func (p *Probe) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	ok := p.client.HealthCheck(ctx) == nil
	if prev := p.reachable.Swap(ok); prev != ok {
		if ok {
			p.log.Info(ctx, "backend reachable")
		} else {
			p.log.Warn(ctx, "backend unreachable")
		}
	}
	return ok
}

// Watch re-probes on the given cadence until ctx is done.
func (p *Probe) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
