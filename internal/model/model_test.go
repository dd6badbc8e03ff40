package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validGame() GameSummary {
	return GameSummary{
		ID:          "g1",
		RoundDate:   1000,
		WinningTeam: WinnerMarines,
		RoundLength: 600,
		MapName:     "ns2_summit",
		Marines: TeamSummary{
			Players:   map[string]PlayerSummary{"alice": {Kills: 3}, "bob": {}},
			Commander: ptr("bob"),
			RTGraph:   []RTSample{{Time: 10, Value: 1}, {Time: 10, Value: 2}},
		},
		Aliens: TeamSummary{Players: map[string]PlayerSummary{"carol": {Deaths: 2}}},
	}
}

func TestValidate(t *testing.T) {
	valid := validGame()
	require.NoError(t, valid.Validate())

	cases := map[string]func(g *GameSummary){
		"winner":     func(g *GameSummary) { g.WinningTeam = 3 },
		"length":     func(g *GameSummary) { g.RoundLength = -1 },
		"map":        func(g *GameSummary) { g.MapName = "" },
		"commander":  func(g *GameSummary) { g.Aliens.Commander = ptr("alice") },
		"negative":   func(g *GameSummary) { g.Aliens.Players["carol"] = PlayerSummary{Score: -5} },
		"rt order":   func(g *GameSummary) { g.Marines.RTGraph = []RTSample{{Time: 20}, {Time: 5}} },
		"both teams": func(g *GameSummary) { g.Aliens.Players["alice"] = PlayerSummary{} },
		"played":     func(g *GameSummary) { g.Marines.Played = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			g := validGame()
			mutate(&g)
			require.ErrorIs(t, g.Validate(), ErrInvalidGame)
		})
	}
}

func TestTeamOf(t *testing.T) {
	g := validGame()
	require.Equal(t, TeamMarines, g.TeamOf("alice"))
	require.Equal(t, TeamAliens, g.TeamOf("carol"))
	require.Equal(t, TeamUnknown, g.TeamOf("zed"))
	require.Equal(t, 3, g.PlayerCount())
}

func TestTeamSize(t *testing.T) {
	g := validGame()
	require.Equal(t, 2, g.Marines.Size(), "falls back to the roster when Played is unknown")

	g.Aliens.Played = 2
	require.Equal(t, 2, g.Aliens.Size(), "switchers listed on the other side still count")

	g.Marines.Played = 1
	require.Equal(t, 2, g.Marines.Size())
}

func TestRange(t *testing.T) {
	r := Range{From: ptr(int64(10)), To: ptr(int64(20))}
	for ts, want := range map[int64]bool{9: false, 10: true, 15: true, 20: true, 21: false} {
		require.Equal(t, want, r.Contains(ts), "Contains(%d)", ts)
	}
	require.True(t, Range{}.Contains(-1), "unbounded range contains everything")
	require.True(t, r.Valid())
	require.True(t, Range{From: ptr(int64(5))}.Valid())
	require.False(t, Range{From: ptr(int64(2)), To: ptr(int64(1))}.Valid())
}

func TestStatSides(t *testing.T) {
	var s Stat
	s.Add(TeamMarines, 2)
	s.Add(TeamAliens, 3)
	s.Add(TeamUnknown, 100)
	require.Equal(t, Stat{Total: 5, Marines: 2, Aliens: 3}, s)
	require.Equal(t, 2, s.Side(TeamMarines))
	require.Equal(t, 3, s.Side(TeamAliens))
	require.Equal(t, 5, s.Side(TeamUnknown))
}

func TestUserStatsRatios(t *testing.T) {
	u := UserStats{}
	require.Zero(t, u.KD())
	require.Zero(t, u.Accuracy())
	require.Zero(t, u.WinRate())
	require.Zero(t, u.ScorePerGame(TeamUnknown))

	u.Kills.Add(TeamMarines, 6)
	u.Assists.Add(TeamMarines, 2)
	u.Deaths.Add(TeamAliens, 4)
	u.Hits.Add(TeamMarines, 1)
	u.Misses.Add(TeamMarines, 3)
	u.Games.Add(TeamMarines, 2)
	u.Wins.Add(TeamMarines, 1)
	u.Score.Add(TeamMarines, 50)

	require.Equal(t, 1.5, u.KD())
	require.Equal(t, 2.0, u.KDA())
	require.Equal(t, 25.0, u.Accuracy())
	require.Equal(t, 50.0, u.WinRate())
	require.Equal(t, 25.0, u.ScorePerGame(TeamMarines))
	require.Zero(t, u.ScorePerGame(TeamAliens))
}

func TestStatsClone(t *testing.T) {
	s := NewStats()
	s.Users["a"] = UserStats{}
	c := s.Clone()
	c.Users["b"] = UserStats{}
	c.Maps["m"] = MapStats{TotalGames: 1}
	require.Len(t, s.Users, 1, "clone shares maps with original")
	require.Empty(t, s.Maps)
}
