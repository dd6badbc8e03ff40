package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-ns2-stats/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err, "open in-memory db")
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

func sampleGame(id string, date int64) *model.GameSummary {
	return &model.GameSummary{
		ID:          id,
		RoundDate:   date,
		WinningTeam: model.WinnerAliens,
		RoundLength: 845.5,
		MapName:     "ns2_tram",
		Marines: model.TeamSummary{
			Players:   map[string]model.PlayerSummary{"alice": {Kills: 10, Deaths: 3, Score: 30, Hits: 120, Misses: 200}, "bob": {Score: 55}},
			Commander: ptr("bob"),
			RTGraph:   []model.RTSample{{Time: 15, Value: 1}, {Time: 90, Value: 2}},
			Played:    3,
		},
		Aliens: model.TeamSummary{
			Players: map[string]model.PlayerSummary{"carol": {Kills: 7, Assists: 4, Deaths: 6, Score: 28}},
			RTGraph: []model.RTSample{{Time: 20, Value: 1}},
			Played:  1,
		},
	}
}

func insert(t *testing.T, db *DB, games ...*model.GameSummary) {
	t.Helper()
	for _, g := range games {
		require.NoError(t, db.InsertGame(context.Background(), g, ""))
	}
}

func TestGameInsertAndExists(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	require.NoError(t, db.InsertGame(ctx, sampleGame("abc123", 100), "round.json"))

	exists, err := db.GameExists(ctx, "abc123")
	require.NoError(t, err)
	require.True(t, exists, "game should exist after insert")

	exists, err = db.GameExists(ctx, "nonexistent")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestInsertGameRoundTrip(t *testing.T) {
	db := openMemDB(t)
	want := sampleGame("abc123", 100)
	insert(t, db, want)

	got, err := db.GetGameByPrefix(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, *want, *got)
}

func TestInsertGameIsIdempotent(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	g := sampleGame("abc123", 100)

	insert(t, db, g, g)
	// A re-ingest that drops a player must not leave the old row behind.
	delete(g.Marines.Players, "alice")
	insert(t, db, g)

	n, err := db.CountGames(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err := db.LatestGame(ctx)
	require.NoError(t, err)
	require.NotContains(t, got.Marines.Players, "alice", "stale player row survived re-insert")
	require.Len(t, got.Marines.RTGraph, 2)
}

func TestListGames(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	insert(t, db, sampleGame("h3", 300), sampleGame("h1", 100), sampleGame("h2", 200))

	all, err := db.ListGames(ctx, model.Range{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, id := range []string{"h1", "h2", "h3"} {
		require.Equal(t, id, all[i].ID, "ordered by round_date")
	}
	require.Len(t, all[1].Aliens.Players, 1, "players are loaded for every game")

	window, err := db.ListGames(ctx, model.Range{From: ptr(int64(200)), To: ptr(int64(300))})
	require.NoError(t, err)
	require.Len(t, window, 2)
	require.Equal(t, "h2", window[0].ID)
	require.Equal(t, "h3", window[1].ID)

	none, err := db.ListGames(ctx, model.Range{From: ptr(int64(1000))})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestLatestGame(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	g, err := db.LatestGame(ctx)
	require.NoError(t, err)
	require.Nil(t, g, "empty store")

	insert(t, db, sampleGame("old", 100), sampleGame("new", 500), sampleGame("mid", 300))

	g, err = db.LatestGame(ctx)
	require.NoError(t, err)
	require.NotNil(t, g)
	require.Equal(t, "new", g.ID)
}

func TestGetGameByPrefix(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	insert(t, db, sampleGame("deadbeef1234", 1))

	g, err := db.GetGameByPrefix(ctx, "deadbeef")
	require.NoError(t, err)
	require.NotNil(t, g)
	require.Equal(t, "ns2_tram", g.MapName)

	g, err = db.GetGameByPrefix(ctx, "ffff")
	require.NoError(t, err)
	require.Nil(t, g)
}

func TestDeleteGame(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	insert(t, db, sampleGame("gone", 1))

	removed, err := db.DeleteGame(ctx, "gone")
	require.NoError(t, err)
	require.True(t, removed)

	_, rows, err := db.QueryRaw(ctx, "SELECT * FROM game_players")
	require.NoError(t, err)
	require.Empty(t, rows, "player rows are deleted with the game")

	removed, err = db.DeleteGame(ctx, "gone")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestGameSources(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	sources, err := db.GameSources(ctx)
	require.NoError(t, err)
	require.Empty(t, sources)

	require.NoError(t, db.InsertGame(ctx, sampleGame("g1", 1), "/data/r1.json"))
	insert(t, db, sampleGame("g2", 2))

	sources, err = db.GameSources(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"g1": "/data/r1.json", "g2": ""}, sources)
}

func TestPlayerGameCounts(t *testing.T) {
	db := openMemDB(t)
	insert(t, db, sampleGame("g1", 1), sampleGame("g2", 2))

	counts, err := db.PlayerGameCounts(context.Background(), []string{"alice", "zed"})
	require.NoError(t, err)
	require.Equal(t, []PlayerGameCount{{Name: "alice", Games: 2}, {Name: "zed", Games: 0}}, counts)
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	insert(t, db, sampleGame("g1", 1))

	cols, rows, err := db.QueryRaw(ctx, "SELECT id, map_name, alien_com, marine_played FROM games")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "map_name", "alien_com", "marine_played"}, cols)
	require.Equal(t, [][]string{{"g1", "ns2_tram", "NULL", "3"}}, rows)

	_, _, err = db.QueryRaw(ctx, "SELECT * FROM nope")
	require.Error(t, err, "unknown table")
}

func TestOverview(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	o, err := db.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, Overview{}, o, "zero overview on empty store")

	other := sampleGame("g2", 400)
	other.MapName = "ns2_veil"
	insert(t, db, sampleGame("g1", 100), other)

	o, err = db.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, Overview{Games: 2, Players: 3, Maps: 2, FirstGame: 100, LastGame: 400}, o)
}
