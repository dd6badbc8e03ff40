package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-ns2-stats/internal/aggregator"
	"github.com/pable/go-ns2-stats/internal/history"
	"github.com/pable/go-ns2-stats/internal/model"
	"github.com/pable/go-ns2-stats/internal/storage"
)

func testGame(id string, date int64) model.GameSummary {
	return model.GameSummary{
		ID:          id,
		RoundDate:   date,
		WinningTeam: model.WinnerAliens,
		RoundLength: 900,
		MapName:     "ns2_tram",
		Marines: model.TeamSummary{Players: map[string]model.PlayerSummary{
			"alice": {Kills: 4, Deaths: 2, Score: 30},
			"bob":   {Kills: 1, Deaths: 5, Score: 10},
		}},
		Aliens: model.TeamSummary{Players: map[string]model.PlayerSummary{
			"carol": {Kills: 6, Deaths: 1, Score: 50},
			"dave":  {Kills: 2, Deaths: 2, Score: 20},
		}},
	}
}

func newTestShell(t *testing.T) (*shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, g := range []model.GameSummary{testGame("aaaa1111", 1000), testGame("bbbb2222", 2000)} {
		require.NoError(t, db.InsertGame(ctx, &g, "test"))
	}
	hist := history.New(aggregator.DefaultFilter, false)
	require.NoError(t, hist.Load(ctx, db))

	var out, errOut bytes.Buffer
	return &shell{db: db, hist: hist, out: &out, errOut: &errOut}, &out, &errOut
}

func TestShellExec(t *testing.T) {
	sh, out, errOut := newTestShell(t)
	ctx := context.Background()

	require.False(t, sh.exec(ctx, "   "))
	require.False(t, sh.exec(ctx, "list"))
	require.Contains(t, out.String(), "aaaa1111")

	out.Reset()
	require.False(t, sh.exec(ctx, "show bbbb --player carol"))
	require.Contains(t, out.String(), "ns2_tram")
	require.Contains(t, out.String(), "carol")

	out.Reset()
	require.False(t, sh.exec(ctx, "stats --sort kd"))
	require.Contains(t, out.String(), "Games: 2")

	out.Reset()
	require.False(t, sh.exec(ctx, "player alice nobody"))
	require.Contains(t, out.String(), "=== alice ===")
	require.Contains(t, errOut.String(), `"nobody"`)

	out.Reset()
	require.False(t, sh.exec(ctx, "teams alice,bob,carol,dave --marine-com carol"))
	require.Contains(t, out.String(), "carol (C)")
	require.Contains(t, out.String(), "Imbalance")

	errOut.Reset()
	require.False(t, sh.exec(ctx, "teams alice --alien-com zed"))
	require.Contains(t, errOut.String(), "error")

	errOut.Reset()
	require.False(t, sh.exec(ctx, "frobnicate"))
	require.Contains(t, errOut.String(), "unknown command")

	require.False(t, sh.exec(ctx, "reload"))
	require.True(t, sh.exec(ctx, "exit"))
}

func TestShellFlag(t *testing.T) {
	v, rest := shellFlag([]string{"a", "--x", "1", "b"}, "--x")
	require.Equal(t, "1", v)
	require.Equal(t, []string{"a", "b"}, rest)

	v, rest = shellFlag([]string{"a", "--x"}, "--x")
	require.Empty(t, v)
	require.Equal(t, []string{"a", "--x"}, rest)
}

func TestPlayedBy(t *testing.T) {
	games := []model.GameSummary{testGame("a", 1), {ID: "b", MapName: "ns2_veil"}}
	got := playedBy(games, "dave")
	require.Len(t, got, 1)
	require.Equal(t, "a", got[0].ID)
	require.Empty(t, playedBy(games, "zed"))
}
