package config

import "time"

// Config holds runtime settings for the tasksync terminal client.
//
// Fields:
//   - ServerURL: base URL of the server, e.g. http://127.0.0.1:3000.
//   - CacheFile: SQLite file holding the last list seen, for offline use.
//   - RequestTimeout: limit for HTTP requests and the WebSocket handshake.
type Config struct {
	ServerURL      string
	CacheFile      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000"
	c.CacheFile = "tasksync.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args exclude the program name.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
