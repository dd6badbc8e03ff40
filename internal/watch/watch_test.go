package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-ns2-stats/internal/aggregator"
	"github.com/pable/go-ns2-stats/internal/history"
	"github.com/pable/go-ns2-stats/internal/model"
	"github.com/pable/go-ns2-stats/internal/storage"
)

func roundFile(date int64, mapName string) []byte {
	return []byte(fmt.Sprintf(`{
	  "RoundInfo": {"roundDate": %d, "winningTeam": 2, "roundLength": 700, "mapName": %q},
	  "PlayerStats": {
	    "1": {"playerName": "m1", "1": {"score": 10, "timePlayed": 700}},
	    "2": {"playerName": "a1", "2": {"score": 12, "timePlayed": 700}}
	  }
	}`, date, mapName))
}

func setup(t *testing.T) (string, *storage.DB, *history.History) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return t.TempDir(), db, history.New(aggregator.DefaultFilter, false)
}

func TestIngest(t *testing.T) {
	dir, db, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r1.json"), roundFile(100, "ns2_veil"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r2.json"), roundFile(200, "ns2_tram"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"RoundInfo": {}}`), 0o644))

	res, err := Ingest(ctx, db, dir)
	require.NoError(t, err)
	require.Equal(t, Result{Added: 2, Failed: 1}, res)

	res, err = Ingest(ctx, db, dir)
	require.NoError(t, err)
	require.Equal(t, Result{Skipped: 2, Failed: 1}, res, "second pass stores nothing new")

	n, err := db.CountGames(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestIngestRemovesVanishedFiles(t *testing.T) {
	dir, db, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r1.json"), roundFile(100, "ns2_veil"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r2.json"), roundFile(200, "ns2_tram"), 0o644))
	require.NoError(t, db.InsertGame(ctx, &model.GameSummary{ID: "elsewhere", MapName: "ns2_summit"}, "/other/r.json"))

	_, err := Ingest(ctx, db, dir)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "r2.json")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r1.json"), roundFile(150, "ns2_derelict"), 0o644))

	res, err := Ingest(ctx, db, dir)
	require.NoError(t, err)
	require.Equal(t, Result{Added: 1, Removed: 2}, res)

	games, err := db.ListGames(ctx, model.Range{})
	require.NoError(t, err)
	require.Len(t, games, 2, "rewritten round plus the game from another directory")
	maps := []string{games[0].MapName, games[1].MapName}
	require.ElementsMatch(t, []string{"ns2_summit", "ns2_derelict"}, maps)
}

func TestSync(t *testing.T) {
	dir, db, hist := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r1.json"), roundFile(100, "ns2_veil"), 0o644))

	w := New(dir, db, hist)
	res, err := w.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Added)
	require.Equal(t, 1, hist.Len())
	require.Equal(t, 1, hist.Stats().AlienWins)
}

func TestRunPicksUpNewFiles(t *testing.T) {
	dir, db, hist := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r1.json"), roundFile(100, "ns2_veil"), 0o644))

	w := New(dir, db, hist)
	w.debounce = 20 * time.Millisecond
	w.synced = make(chan Result, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case res := <-w.synced:
		require.Equal(t, 1, res.Added, "startup sync")
	case <-time.After(5 * time.Second):
		t.Fatal("no startup sync")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r2.json"), roundFile(200, "ns2_tram"), 0o644))

	require.Eventually(t, func() bool { return hist.Len() == 2 }, 5*time.Second, 10*time.Millisecond)
	latest, ok := hist.Latest()
	require.True(t, ok)
	require.Equal(t, "ns2_tram", latest.MapName)

	require.NoError(t, os.Remove(filepath.Join(dir, "r1.json")))
	require.Eventually(t, func() bool { return hist.Len() == 1 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRelevant(t *testing.T) {
	require.True(t, relevant(fsnotify.Event{Name: "r.json", Op: fsnotify.Create}))
	require.True(t, relevant(fsnotify.Event{Name: "r.JSON", Op: fsnotify.Write}))
	require.True(t, relevant(fsnotify.Event{Name: "r.json", Op: fsnotify.Remove}))
	require.False(t, relevant(fsnotify.Event{Name: "r.json", Op: fsnotify.Chmod}))
	require.False(t, relevant(fsnotify.Event{Name: "r.txt", Op: fsnotify.Create}))
}

func TestRunMissingDir(t *testing.T) {
	_, db, hist := setup(t)
	w := New(filepath.Join(t.TempDir(), "missing"), db, hist)
	require.Error(t, w.Run(context.Background()))
}
