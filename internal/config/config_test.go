package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-ns2-stats/internal/aggregator"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	require.Equal(t, DefaultDBPath(), cfg.DB)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr())
	require.True(t, cfg.Stats.GenuineOnly)
	require.Equal(t, aggregator.DefaultFilter, cfg.Stats.Filter())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
db: /tmp/games.db
data_dir: /srv/ns2/stats
http:
  port: 9000
stats:
  min_round_length: 120
  genuine_only: false
`), 0o644))
	t.Setenv("NS2STATS_HTTP_HOST", "0.0.0.0")
	t.Setenv("NS2STATS_LOG_LEVEL", "debug")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/games.db", cfg.DB)
	require.Equal(t, "/srv/ns2/stats", cfg.DataDir)
	require.Equal(t, "0.0.0.0:9000", cfg.HTTP.Addr())
	require.Equal(t, "debug", cfg.LogLevel)
	require.False(t, cfg.Stats.GenuineOnly)
	require.Equal(t, aggregator.Filter{MinRoundLength: 120, MinTeamPlayers: 3}, cfg.Stats.Filter())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	good := Config{DB: "x.db", LogLevel: "info", HTTP: HTTP{Port: 80, Mode: "release"}}
	require.NoError(t, good.Validate())

	bad := good
	bad.LogLevel = "verbose"
	require.Error(t, bad.Validate())

	bad = good
	bad.HTTP.Port = 70000
	require.Error(t, bad.Validate())

	bad = good
	bad.HTTP.Mode = "turbo"
	require.Error(t, bad.Validate())

	bad = good
	bad.Stats.MinTeamPlayers = -1
	require.Error(t, bad.Validate())
}
