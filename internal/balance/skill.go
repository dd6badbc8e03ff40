package balance

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/pable/go-ns2-stats/internal/model"
)

// SkillMetric names a way of turning UserStats into a skill signal.
type SkillMetric string

const (
	MetricScore SkillMetric = "score" // average score per game
	MetricKDA   SkillMetric = "kda"   // (kills + assists) / deaths
	MetricWins  SkillMetric = "wins"  // win rate in percent
)

// SkillFromStats builds a SkillFunc from historical stats. Players without
// history get the mean of the known players in pool so they do not drag their
// team's total down, or 0 when nobody in pool has played.
func SkillFromStats(stats model.Stats, metric SkillMetric, pool []string) (SkillFunc, error) {
	var value func(u model.UserStats) float64
	switch metric {
	case MetricScore, "":
		value = func(u model.UserStats) float64 { return u.ScorePerGame(model.TeamUnknown) }
	case MetricKDA:
		value = func(u model.UserStats) float64 { return u.KDA() }
	case MetricWins:
		value = func(u model.UserStats) float64 { return u.WinRate() }
	default:
		return nil, fmt.Errorf("unknown skill metric %q", metric)
	}

	known := make(map[string]float64, len(pool))
	for _, name := range pool {
		if u, ok := stats.Users[name]; ok && u.Games.Total > 0 {
			known[name] = value(u)
		}
	}
	fallback := 0.0
	if len(known) > 0 {
		// Sum in name order so the mean is reproducible.
		names := lo.Keys(known)
		sort.Strings(names)
		for _, name := range names {
			fallback += known[name]
		}
		fallback /= float64(len(known))
	}

	return func(player string) float64 {
		if v, ok := known[player]; ok {
			return v
		}
		return fallback
	}, nil
}

// PastRosters returns earlier games played by exactly this pool with the same
// commanders, longest round first.
func PastRosters(games []model.GameSummary, pool []string, marineCom, alienCom *string) []model.GameSummary {
	pool = lo.Uniq(pool)
	var out []model.GameSummary
	for _, g := range games {
		if g.PlayerCount() != len(pool) {
			continue
		}
		if !sameCommander(g.Marines.Commander, marineCom) || !sameCommander(g.Aliens.Commander, alienCom) {
			continue
		}
		all := lo.EveryBy(pool, func(name string) bool {
			_, m := g.Marines.Players[name]
			_, a := g.Aliens.Players[name]
			return m || a
		})
		if all {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RoundLength > out[j].RoundLength })
	return out
}

func sameCommander(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
