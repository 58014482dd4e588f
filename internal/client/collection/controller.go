// Package collection owns the local cached list of recipe records and keeps
// it consistent with the backend: every write is followed by a full refresh
// instead of an optimistic local splice, so no record ever enters the
// collection without server confirmation.
package collection

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/recipedeck/internal/client/api"
	"github.com/dmitrijs2005/recipedeck/internal/client/models"
	"github.com/dmitrijs2005/recipedeck/internal/common"
	"github.com/dmitrijs2005/recipedeck/internal/logging"
)

// Controller is the single writer of the record collection. Reads return
// snapshots; concurrent refreshes are resolved by initiation order, not
// arrival order.
type Controller struct {
	client api.Client
	log    logging.Logger

	mu      sync.Mutex
	records []models.Recipe
	seq     uint64
}

func NewController(client api.Client, log logging.Logger) *Controller {
	return &Controller{client: client, log: log.With("component", "collection")}
}

// Snapshot returns a copy of the cached collection, newest first.
func (c *Controller) Snapshot() []models.Recipe {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Recipe, len(c.records))
	copy(out, c.records)
	for i := range out {
		if out[i].Attachment != nil {
			ref := *out[i].Attachment
			out[i].Attachment = &ref
		}
	}
	return out
}

// Find returns the cached record with the given id.
func (c *Controller) Find(id string) (*models.Recipe, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].ID == id {
			rec := c.records[i]
			if rec.Attachment != nil {
				ref := *rec.Attachment
				rec.Attachment = &ref
			}
			return &rec, nil
		}
	}
	return nil, common.ErrNotFound
}

// Refresh replaces the collection with the backend's current listing.
// Each call is tagged with a monotonically increasing sequence number and a
// result is applied only if its sequence is still the latest issued, so an
// in-flight stale response can never clobber a newer refresh regardless of
// completion order. A superseded call returns nil without touching state.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	records, err := c.client.ListRecords(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// A newer refresh was initiated while this one was in flight;
		// its outcome, success or failure, is the one that counts.
		return nil
	}
	if err != nil {
		return fmt.Errorf("refreshing collection: %w", err)
	}
	c.records = records
	return nil
}

// Create sends the draft to the backend and, on success, refreshes the
// collection so the authoritative record (server-assigned id, resolved
// attachment URL) replaces any local view. On write failure the collection
// is untouched and the error propagates so the edit surface can stay open.
func (c *Controller) Create(ctx context.Context, draft *models.Draft) error {
	var file *models.FileHandle
	if draft.FileState == models.FileSelected {
		file = draft.PendingFile
	}
	rec, err := c.client.CreateRecord(ctx, draft.Fields(), file)
	if err != nil {
		return err
	}
	c.log.Info(ctx, "record created", "id", rec.ID)
	c.refreshAfterWrite(ctx)
	return nil
}

// Update has the same contract as Create but targets an existing id. The
// draft's file state is forwarded so an unchanged attachment is omitted
// from the write rather than erased.
func (c *Controller) Update(ctx context.Context, id string, draft *models.Draft) error {
	rec, err := c.client.UpdateRecord(ctx, id, draft.Fields(), draft.FileState, draft.PendingFile)
	if err != nil {
		return err
	}
	c.log.Info(ctx, "record updated", "id", rec.ID)
	c.refreshAfterWrite(ctx)
	return nil
}

// Delete removes the record remotely and refreshes on success. Confirmation
// is the presentation layer's obligation; ownership checks are advisory and
// the server remains the final authority.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.client.DeleteRecord(ctx, id); err != nil {
		return err
	}
	c.log.Info(ctx, "record deleted", "id", id)
	c.refreshAfterWrite(ctx)
	return nil
}

// refreshAfterWrite reconciles the collection once the backend has confirmed
// a write. The write already succeeded, so a listing failure here is a read
// problem: it is logged and never returned, otherwise the caller would
// report a confirmed write as failed and invite a duplicate retry. The next
// Refresh picks up the authoritative state.
func (c *Controller) refreshAfterWrite(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn(ctx, "refresh after confirmed write failed", "error", err)
	}
}
