package aggregator

import "github.com/pable/go-ns2-stats/internal/model"

// Filter decides which rounds count toward statistics.
type Filter struct {
	MinRoundLength float64 // seconds; shorter rounds are dropped
	MinTeamPlayers int     // each side needs at least this many players, switchers included
}

// DefaultFilter drops rounds under five minutes and rounds with two or fewer
// players a side, which are almost always bot or seeding games.
var DefaultFilter = Filter{MinRoundLength: 300, MinTeamPlayers: 3}

// Keep reports whether g passes the filter.
func (f Filter) Keep(g *model.GameSummary) bool {
	if g.RoundLength < f.MinRoundLength {
		return false
	}
	return g.Marines.Size() >= f.MinTeamPlayers && g.Aliens.Size() >= f.MinTeamPlayers
}

// Apply returns the games that pass the filter, preserving order.
func (f Filter) Apply(games []model.GameSummary) []model.GameSummary {
	out := make([]model.GameSummary, 0, len(games))
	for i := range games {
		if f.Keep(&games[i]) {
			out = append(out, games[i])
		}
	}
	return out
}
