package model

import (
	"errors"
	"fmt"
)

// ErrInvalidGame is returned by Validate for summaries that break the model invariants.
var ErrInvalidGame = errors.New("invalid game summary")

// Team represents which side a player is on.
type Team int

const (
	TeamUnknown Team = 0
	TeamMarines Team = 1
	TeamAliens  Team = 2
)

func (t Team) String() string {
	switch t {
	case TeamMarines:
		return "Marines"
	case TeamAliens:
		return "Aliens"
	default:
		return "?"
	}
}

// WinningTeam is the outcome of a round. The numeric values match the NS2 round files.
type WinningTeam int

const (
	WinnerNone    WinningTeam = 0 // draw or aborted round
	WinnerMarines WinningTeam = 1
	WinnerAliens  WinningTeam = 2
)

func (w WinningTeam) String() string {
	switch w {
	case WinnerMarines:
		return "Marines"
	case WinnerAliens:
		return "Aliens"
	default:
		return "None"
	}
}

// Team returns the side that won, or TeamUnknown for a draw.
func (w WinningTeam) Team() Team {
	switch w {
	case WinnerMarines:
		return TeamMarines
	case WinnerAliens:
		return TeamAliens
	default:
		return TeamUnknown
	}
}

// PlayerSummary holds one player's counters for one team in one round.
type PlayerSummary struct {
	Kills   int `json:"kills"`
	Assists int `json:"assists"`
	Deaths  int `json:"deaths"`
	Score   int `json:"score"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
}

// RTSample is one point of a team's resource tower graph.
type RTSample struct {
	Time  float64 `json:"time"`  // seconds since round start
	Value int     `json:"value"` // resource towers alive
}

// TeamSummary is one side of a completed round.
type TeamSummary struct {
	Players   map[string]PlayerSummary `json:"players"`
	Commander *string                  `json:"commander,omitempty"` // nil when nobody commanded
	RTGraph   []RTSample               `json:"rt_graph"`
	// Played counts everyone who spent time on this side, including side
	// switchers listed under the other team. Zero when unknown.
	Played int `json:"played"`
}

// Size is the number of players who took part on this side.
func (t TeamSummary) Size() int {
	return max(len(t.Players), t.Played)
}

// IsCommander reports whether player commanded this team.
func (t TeamSummary) IsCommander(player string) bool {
	return t.Commander != nil && *t.Commander == player
}

// GameSummary is the canonical, read-only record of one completed round.
type GameSummary struct {
	ID          string      `json:"id"`         // sha256 of the source file
	RoundDate   int64       `json:"round_date"` // unix seconds
	WinningTeam WinningTeam `json:"winning_team"`
	RoundLength float64     `json:"round_length"` // seconds
	MapName     string      `json:"map_name"`
	Marines     TeamSummary `json:"marines"`
	Aliens      TeamSummary `json:"aliens"`
}

// Side returns the summary for the given team.
func (g *GameSummary) Side(t Team) TeamSummary {
	if t == TeamAliens {
		return g.Aliens
	}
	return g.Marines
}

// TeamOf returns the side player was on, or TeamUnknown when absent.
func (g *GameSummary) TeamOf(player string) Team {
	if _, ok := g.Marines.Players[player]; ok {
		return TeamMarines
	}
	if _, ok := g.Aliens.Players[player]; ok {
		return TeamAliens
	}
	return TeamUnknown
}

// PlayerCount is the number of players on both teams.
func (g *GameSummary) PlayerCount() int {
	return len(g.Marines.Players) + len(g.Aliens.Players)
}

// Validate checks the invariants the aggregator relies on.
func (g *GameSummary) Validate() error {
	switch g.WinningTeam {
	case WinnerNone, WinnerMarines, WinnerAliens:
	default:
		return fmt.Errorf("%w: winning team %d", ErrInvalidGame, g.WinningTeam)
	}
	if g.RoundLength < 0 {
		return fmt.Errorf("%w: negative round length %.1f", ErrInvalidGame, g.RoundLength)
	}
	if g.MapName == "" {
		return fmt.Errorf("%w: missing map name", ErrInvalidGame)
	}
	for _, t := range []Team{TeamMarines, TeamAliens} {
		side := g.Side(t)
		if side.Played < 0 {
			return fmt.Errorf("%w: negative %s played count", ErrInvalidGame, t)
		}
		if side.Commander != nil {
			if _, ok := side.Players[*side.Commander]; !ok {
				return fmt.Errorf("%w: %s commander %q is not on the team", ErrInvalidGame, t, *side.Commander)
			}
		}
		for name, p := range side.Players {
			if p.Kills < 0 || p.Assists < 0 || p.Deaths < 0 || p.Score < 0 || p.Hits < 0 || p.Misses < 0 {
				return fmt.Errorf("%w: negative counter for %q", ErrInvalidGame, name)
			}
		}
		for i := 1; i < len(side.RTGraph); i++ {
			if side.RTGraph[i].Time < side.RTGraph[i-1].Time {
				return fmt.Errorf("%w: %s rt graph goes back in time at sample %d", ErrInvalidGame, t, i)
			}
		}
	}
	for name := range g.Marines.Players {
		if _, ok := g.Aliens.Players[name]; ok {
			return fmt.Errorf("%w: %q is on both teams", ErrInvalidGame, name)
		}
	}
	return nil
}

// Range is an inclusive unix-seconds interval. A nil bound is unbounded.
type Range struct {
	From *int64
	To   *int64
}

// Contains reports whether ts falls inside the range.
func (r Range) Contains(ts int64) bool {
	if r.From != nil && ts < *r.From {
		return false
	}
	if r.To != nil && ts > *r.To {
		return false
	}
	return true
}

// Valid reports whether From <= To when both are set.
func (r Range) Valid() bool {
	return r.From == nil || r.To == nil || *r.From <= *r.To
}
