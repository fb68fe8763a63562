package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/tasksync/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., "127.0.0.1:3000")
//	-d string   PostgreSQL DSN (empty keeps state in memory)
//	-s string   cookie signing secret
//	-f string   static assets directory
//	-w int      per-frame write timeout, seconds
//	-k int      keepalive ping interval, seconds
//	-l string   log level
//
// args are filtered with flagx.FilterArgs first so -c/-config and flags of
// other components do not trip the parser. Bad values panic.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-f", "-w", "-k", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.AssetsDir, "f", config.AssetsDir, "static assets directory")
	writeTimeout := fs.Int("w", int(config.WriteTimeout.Seconds()), "write timeout (in seconds)")
	keepalive := fs.Int("k", int(config.KeepaliveInterval.Seconds()), "keepalive interval (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.WriteTimeout = time.Duration(*writeTimeout) * time.Second
	config.KeepaliveInterval = time.Duration(*keepalive) * time.Second
}
