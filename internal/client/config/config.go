package config

import "time"

// Config holds runtime settings for the RecipeDeck client.
//
// Fields:
//   - BackendURL: base URL of the record backend.
//   - HealthCheckInterval: how often the client probes backend reachability.
//   - RequestTimeout: per-request HTTP timeout.
//   - SessionDBPath: path of the local SQLite database holding the session.
type Config struct {
	BackendURL          string
	HealthCheckInterval time.Duration
	RequestTimeout      time.Duration
	SessionDBPath       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://localhost:1111"
	c.HealthCheckInterval = 30 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.SessionDBPath = "session.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
