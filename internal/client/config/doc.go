// Package config loads runtime configuration for the tasksync client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   server base URL
//	-f string   offline cache file
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:3000",
//	  "cache_file": "tasksync.db",
//	  "request_timeout": "10s"
//	}
//
// Absent JSON fields keep their defaults.
package config
