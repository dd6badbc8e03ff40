// Package aggregator folds GameSummary records into Stats snapshots.
package aggregator

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-ns2-stats/internal/model"
)

// Accumulator folds games one at a time into a running Stats value.
// It is not safe for concurrent use; Snapshot hands out independent copies.
type Accumulator struct {
	stats model.Stats
}

// NewAccumulator returns an Accumulator over zero games.
func NewAccumulator() *Accumulator {
	return &Accumulator{stats: model.NewStats()}
}

// Add folds one game into the running totals.
func (a *Accumulator) Add(g *model.GameSummary) {
	s := &a.stats
	winner := g.WinningTeam.Team()

	for _, team := range []model.Team{model.TeamMarines, model.TeamAliens} {
		side := g.Side(team)
		for name, p := range side.Players {
			u := s.Users[name]
			u.Games.Add(team, 1)
			if side.IsCommander(name) {
				u.Commander.Add(team, 1)
			}
			if team == winner {
				u.Wins.Add(team, 1)
			}
			u.Kills.Add(team, p.Kills)
			u.Assists.Add(team, p.Assists)
			u.Deaths.Add(team, p.Deaths)
			u.Score.Add(team, p.Score)
			u.Hits.Add(team, p.Hits)
			u.Misses.Add(team, p.Misses)
			s.Users[name] = u
		}
	}

	m := s.Maps[g.MapName]
	m.TotalGames++
	s.TotalGames++
	switch g.WinningTeam {
	case model.WinnerMarines:
		m.MarineWins++
		s.MarineWins++
	case model.WinnerAliens:
		m.AlienWins++
		s.AlienWins++
	}
	s.Maps[g.MapName] = m

	if g.RoundDate > s.LatestGame {
		s.LatestGame = g.RoundDate
	}
}

// Snapshot returns a deep copy of the running totals.
func (a *Accumulator) Snapshot() model.Stats {
	return a.stats.Clone()
}

// Aggregate folds games in order into a single Stats value. Empty input
// yields empty maps and LatestGame == model.NoGames.
func Aggregate(games []model.GameSummary) model.Stats {
	acc := NewAccumulator()
	for i := range games {
		acc.Add(&games[i])
	}
	return acc.stats
}

// Merge returns the field-wise sum of two snapshots. LatestGame is the later
// of the two. Aggregate(A ++ B) == Merge(Aggregate(A), Aggregate(B)).
func Merge(a, b model.Stats) model.Stats {
	out := a.Clone()
	for name, u := range b.Users {
		out.Users[name] = out.Users[name].Plus(u)
	}
	for name, m := range b.Maps {
		out.Maps[name] = out.Maps[name].Plus(m)
	}
	out.TotalGames += b.TotalGames
	out.MarineWins += b.MarineWins
	out.AlienWins += b.AlienWins
	if b.LatestGame > out.LatestGame {
		out.LatestGame = b.LatestGame
	}
	return out
}

// AggregateParallel splits games into shards, folds each shard concurrently
// and merges the partial results. The result equals Aggregate(games).
func AggregateParallel(ctx context.Context, games []model.GameSummary, shards int) (model.Stats, error) {
	if shards < 1 {
		shards = 1
	}
	if shards > len(games) {
		shards = len(games)
	}
	if shards <= 1 {
		return Aggregate(games), nil
	}

	size := (len(games) + shards - 1) / shards
	partial := make([]model.Stats, shards)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < shards; i++ {
		lo := i * size
		hi := min(lo+size, len(games))
		if lo >= hi {
			partial[i] = model.NewStats()
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partial[i] = Aggregate(games[lo:hi])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Stats{}, fmt.Errorf("aggregate shards: %w", err)
	}

	out := model.NewStats()
	for _, p := range partial {
		out = Merge(out, p)
	}
	return out, nil
}

// Continuous returns one cumulative snapshot per game inside r, in ascending
// RoundDate order. Games sharing a RoundDate keep their input order. Every
// snapshot is an independent copy.
func Continuous(games []model.GameSummary, r model.Range) []model.Snapshot {
	kept := make([]*model.GameSummary, 0, len(games))
	for i := range games {
		if r.Contains(games[i].RoundDate) {
			kept = append(kept, &games[i])
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].RoundDate < kept[j].RoundDate
	})

	out := make([]model.Snapshot, 0, len(kept))
	acc := NewAccumulator()
	for _, g := range kept {
		acc.Add(g)
		out = append(out, model.Snapshot{Timestamp: g.RoundDate, Stats: acc.Snapshot()})
	}
	return out
}
