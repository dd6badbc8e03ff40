package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/go-ns2-stats/internal/aggregator"
	"github.com/pable/go-ns2-stats/internal/model"
)

func ptr[T any](v T) *T { return &v }

func sampleGame() model.GameSummary {
	return model.GameSummary{
		ID:          "0123456789abcdef0123",
		RoundDate:   1700000000,
		WinningTeam: model.WinnerMarines,
		RoundLength: 754.6,
		MapName:     "ns2_veil",
		Marines: model.TeamSummary{
			Players:   map[string]model.PlayerSummary{"alice": {Kills: 8, Deaths: 2, Hits: 50, Misses: 50, Score: 40}, "bob": {Score: 70}},
			Commander: ptr("bob"),
			RTGraph:   []model.RTSample{{Time: 30, Value: 1}, {Time: 95, Value: 2}},
		},
		Aliens: model.TeamSummary{
			Players: map[string]model.PlayerSummary{"carol": {Kills: 3, Deaths: 9, Score: 22}},
			RTGraph: []model.RTSample{{Time: 60, Value: 1}},
		},
	}
}

func TestFormatting(t *testing.T) {
	require.Equal(t, "12:35", FormatLength(754.6))
	require.Equal(t, "0:00", FormatLength(0))
	require.Equal(t, "0123456789ab", ShortID("0123456789abcdef"))
	require.Equal(t, "abc", ShortID("abc"))
}

func TestPrintGameTable(t *testing.T) {
	var buf bytes.Buffer
	PrintGameTable(&buf, sampleGame(), "alice")
	out := buf.String()

	require.Contains(t, out, "alice")
	require.Contains(t, out, "carol")
	require.Contains(t, out, "4.00", "alice K/D")
	require.Contains(t, out, "50%", "alice accuracy")
	require.Less(t, strings.Index(out, "bob"), strings.Index(out, "alice"), "highest score first")
}

func TestPrintGameList(t *testing.T) {
	var buf bytes.Buffer
	older := sampleGame()
	older.ID = "fedcba9876543210"
	older.RoundDate -= 3600
	PrintGameList(&buf, []model.GameSummary{older, sampleGame()})
	out := buf.String()

	require.Contains(t, out, "0123456789ab")
	require.Contains(t, out, "2 v 1")
	require.Less(t, strings.Index(out, "0123456789ab"), strings.Index(out, "fedcba987654"), "newest first")
}

func TestPrintRTGraph(t *testing.T) {
	var buf bytes.Buffer
	PrintRTGraph(&buf, sampleGame())
	require.Contains(t, buf.String(), "1:35")

	buf.Reset()
	PrintRTGraph(&buf, model.GameSummary{})
	require.Contains(t, buf.String(), "no resource tower events")
}

func TestPrintStatsTables(t *testing.T) {
	stats := aggregator.Aggregate([]model.GameSummary{sampleGame()})

	var buf bytes.Buffer
	PrintOverview(&buf, stats)
	require.Contains(t, buf.String(), "Games: 1")

	buf.Reset()
	PrintUserTable(&buf, stats, SortScore, 1)
	out := buf.String()
	require.Less(t, strings.Index(out, "bob"), strings.Index(out, "carol"))

	buf.Reset()
	PrintUserTable(&buf, stats, SortGames, 2)
	require.NotContains(t, buf.String(), "alice", "below min games")

	buf.Reset()
	PrintMapTable(&buf, stats)
	require.Contains(t, buf.String(), "ns2_veil")

	buf.Reset()
	PrintOverview(&buf, model.NewStats())
	require.Contains(t, buf.String(), "No games recorded.")
}

func TestPrintContinuousTable(t *testing.T) {
	snaps := aggregator.Continuous([]model.GameSummary{sampleGame()}, model.Range{})

	var buf bytes.Buffer
	PrintContinuousTable(&buf, snaps, "carol")
	require.Contains(t, buf.String(), "0.33", "carol K/D")

	buf.Reset()
	PrintContinuousTable(&buf, snaps, "")
	require.Contains(t, buf.String(), "100%")
}

func TestPrintTeams(t *testing.T) {
	var buf bytes.Buffer
	skill := map[string]float64{"a": 1.5, "b": 2, "c": 3}
	PrintTeams(&buf, []string{"a", "b"}, []string{"c"}, func(n string) float64 { return skill[n] }, ptr("a"), nil)
	out := buf.String()

	require.Contains(t, out, "a (C)")
	require.Contains(t, out, "3.50")
	require.Contains(t, out, "3.00")
}

func TestPrintPlayerCard(t *testing.T) {
	stats := aggregator.Aggregate([]model.GameSummary{sampleGame()})

	var buf bytes.Buffer
	PrintPlayerCard(&buf, "alice", stats.Users["alice"])
	out := buf.String()
	require.Contains(t, out, "=== alice ===")
	require.Contains(t, out, "Marines")
	require.Contains(t, out, "K/D 4.00")
	require.Contains(t, out, "Win rate 100%")
}
