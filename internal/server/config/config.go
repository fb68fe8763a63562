// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the tasksync server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP/WebSocket endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps everything in memory.
//   - SecretKey: HMAC secret for signing session cookies (HS256). Empty
//     means a random key per process.
//   - AssetsDir: directory with the static web client.
//   - WriteTimeout: deadline for writing one frame to a peer.
//   - KeepaliveInterval: period of server pings; the read deadline is
//     extended by a little more than this on every pong.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP  string
	DatabaseDSN       string
	SecretKey         string
	AssetsDir         string
	WriteTimeout      time.Duration
	KeepaliveInterval time.Duration
	LogLevel          string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = "127.0.0.1:3000"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.AssetsDir = "assets"
	c.WriteTimeout = 10 * time.Second
	c.KeepaliveInterval = 54 * time.Second
	c.LogLevel = "info"
}

// PongWait is how long a connection may stay silent before the read loop
// gives up on it.
func (c *Config) PongWait() time.Duration {
	return c.KeepaliveInterval * 10 / 9
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
// args are the process arguments without the program name.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
