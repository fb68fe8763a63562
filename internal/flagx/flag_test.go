package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	cfg := []string{"-c", "-config", "--config"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "config file among server flags",
			args:    []string{"-a", "0.0.0.0:3000", "-c", "server.json", "-k", "30"},
			allowed: cfg,
			want:    []string{"-c", "server.json"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=server.json", "-l", "debug"},
			allowed: cfg,
			want:    []string{"--config=server.json"},
		},
		{
			name:    "server flags without the config file",
			args:    []string{"-c", "server.json", "-d", "postgres://db/tasks", "-s", "k"},
			allowed: []string{"-a", "-d", "-s", "-f", "-w", "-k", "-l"},
			want:    []string{"-d", "postgres://db/tasks", "-s", "k"},
		},
		{
			name:    "dangling flag at the end",
			args:    []string{"-a", ":3000", "-c"},
			allowed: cfg,
			want:    []string{"-c"},
		},
		{
			name:    "next flag is not taken as the value",
			args:    []string{"-c", "-a", ":3000"},
			allowed: cfg,
			want:    []string{"-c"},
		},
		{
			name:    "repeats keep their order",
			args:    []string{"-c", "one.json", "--config=two.json"},
			allowed: cfg,
			want:    []string{"-c", "one.json", "--config=two.json"},
		},
		{
			name:    "positional arguments dropped",
			args:    []string{"serve", "extra"},
			allowed: cfg,
			want:    []string{},
		},
		{
			name:    "nil args",
			args:    nil,
			allowed: cfg,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Run("short -c with value", func(t *testing.T) {
		assert.Equal(t, "/path/short.json", ConfigFile([]string{"-c", "/path/short.json"}))
	})

	t.Run("long -config with value", func(t *testing.T) {
		assert.Equal(t, "/path/long.json", ConfigFile([]string{"-config", "/path/long.json"}))
	})

	t.Run("equals form", func(t *testing.T) {
		assert.Equal(t, "/path/eq.json", ConfigFile([]string{"-a", ":3000", "--config=/path/eq.json"}))
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		assert.Empty(t, ConfigFile([]string{"-x", "1", "-y", "2"}))
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		assert.Equal(t, "/path/2.json", ConfigFile([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
	})
}
