package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/tasksync/internal/flagx"
	"github.com/dmitrijs2005/tasksync/internal/timex"
)

// JsonConfig is the on-disk shape of the server config. Durations use
// timex.Duration so both "10s" and integer nanoseconds are accepted.
// Absent fields keep whatever value Config already has.
type JsonConfig struct {
	EndpointAddrHTTP  *string         `json:"endpoint_addr_http"`
	DatabaseDSN       *string         `json:"database_dsn"`
	SecretKey         *string         `json:"secret_key"`
	AssetsDir         *string         `json:"assets_dir"`
	WriteTimeout      *timex.Duration `json:"write_timeout"`
	KeepaliveInterval *timex.Duration `json:"keepalive_interval"`
	LogLevel          *string         `json:"log_level"`
}

// parseJson overlays config with the JSON file named by -c/-config.
// Without the flag nothing is loaded. A file that cannot be read or parsed
// panics, since the server cannot start on a config it was told to use.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.AssetsDir, c.AssetsDir)
	setString(&config.LogLevel, c.LogLevel)
	if c.WriteTimeout != nil {
		config.WriteTimeout = c.WriteTimeout.Duration
	}
	if c.KeepaliveInterval != nil {
		config.KeepaliveInterval = c.KeepaliveInterval.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
