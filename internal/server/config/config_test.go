package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:3000", c.EndpointAddrHTTP)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, "assets", c.AssetsDir)
	assert.Equal(t, 10*time.Second, c.WriteTimeout)
	assert.Equal(t, 54*time.Second, c.KeepaliveInterval)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 60*time.Second, c.PongWait())
}

func TestLoadConfig_UsesDefaultsWithoutArgs(t *testing.T) {
	c := LoadConfig(nil)

	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_http": "json:1",
		"secret_key":         "json-secret",
	})

	c := LoadConfig([]string{"-c", path, "-a", "flag:2"})

	assert.Equal(t, "flag:2", c.EndpointAddrHTTP)
	assert.Equal(t, "json-secret", c.SecretKey)
	assert.Equal(t, "assets", c.AssetsDir)
}
