package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-ns2-stats/internal/config"
	"github.com/pable/go-ns2-stats/internal/model"
	"github.com/pable/go-ns2-stats/internal/storage"
)

// seedDB writes two games into a fresh database file and returns its path.
func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "games.db")
	db, err := storage.Open(path)
	require.NoError(t, err)
	ctx := context.Background()
	for _, g := range []model.GameSummary{testGame("aaaa1111", 1000), testGame("bbbb2222", 2000)} {
		require.NoError(t, db.InsertGame(ctx, &g, ""))
	}
	require.NoError(t, db.Close())
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestStatsAndContinuousJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)
	dbFile := seedDB(t)

	outFile := filepath.Join(home, "stats.json")
	execute(t, "--db", dbFile, "--all", "stats", "--output", outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var stats model.Stats
	require.NoError(t, json.Unmarshal(data, &stats))
	require.Equal(t, 2, stats.TotalGames)
	require.Equal(t, 2, stats.AlienWins)
	require.Equal(t, int64(2000), stats.LatestGame)
	require.Equal(t, 2, stats.Users["carol"].Wins.Aliens)
	require.Contains(t, string(data), "\n  \"latest_game\"", "pretty printed")

	out := execute(t, "--db", dbFile, "--all", "continuous", "--json")
	var snaps []model.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snaps))
	require.Len(t, snaps, 2)
	require.Equal(t, int64(1000), snaps[0].Timestamp)
	require.Equal(t, 1, snaps[0].Stats.TotalGames)
	require.Equal(t, 2, snaps[1].Stats.TotalGames)
}

func TestServeFlagDefaultsMatchConfig(t *testing.T) {
	require.Equal(t, strconv.Itoa(config.DefaultPort), serveCmd.Flags().Lookup("port").DefValue)
	require.Equal(t, config.DefaultHost, serveCmd.Flags().Lookup("host").DefValue)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)
	cfg, err := config.Load(config.NewViper(), "")
	require.NoError(t, err)
	require.Equal(t, config.DefaultPort, cfg.HTTP.Port)
}
