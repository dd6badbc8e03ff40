// Package history keeps the loaded games and the stats derived from them in
// memory, shared between the HTTP handlers and the directory watcher.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/pable/go-ns2-stats/internal/aggregator"
	"github.com/pable/go-ns2-stats/internal/model"
)

// Source lists stored games, oldest first.
type Source interface {
	ListGames(ctx context.Context, r model.Range) ([]model.GameSummary, error)
}

// History is safe for concurrent use. Returned games share their player maps
// with the history and must be treated as read-only.
type History struct {
	mu      sync.RWMutex
	games   []model.GameSummary // every game, by round date
	counted []model.GameSummary // games that feed stats
	stats   model.Stats

	filter      aggregator.Filter
	genuineOnly bool
}

// New returns an empty history. When genuineOnly is set, stats only count
// games that pass filter; listings always include every game.
func New(filter aggregator.Filter, genuineOnly bool) *History {
	return &History{filter: filter, genuineOnly: genuineOnly, stats: model.NewStats()}
}

// Load replaces the history with everything src holds.
func (h *History) Load(ctx context.Context, src Source) error {
	games, err := src.ListGames(ctx, model.Range{})
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	sortGames(games)
	counted := h.countable(games)
	stats, err := aggregator.AggregateParallel(ctx, counted, runtime.GOMAXPROCS(0))
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	h.mu.Lock()
	h.games, h.counted, h.stats = games, counted, stats
	h.mu.Unlock()

	slog.Debug("history loaded", slog.Int("games", len(games)), slog.Int("counted", len(counted)))
	return nil
}

// Set replaces the history with games.
func (h *History) Set(games []model.GameSummary) {
	games = append([]model.GameSummary(nil), games...)
	sortGames(games)
	counted := h.countable(games)
	stats := aggregator.Aggregate(counted)

	h.mu.Lock()
	h.games, h.counted, h.stats = games, counted, stats
	h.mu.Unlock()
}

// Len returns the number of games held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games)
}

// Games returns every game whose round date is inside r, oldest first.
func (h *History) Games(r model.Range) []model.GameSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return inRange(h.games, r)
}

// Counted returns the games that feed Stats, oldest first.
func (h *History) Counted() []model.GameSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]model.GameSummary(nil), h.counted...)
}

// Latest returns the most recent game, or false when the history is empty.
func (h *History) Latest() (model.GameSummary, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.games) == 0 {
		return model.GameSummary{}, false
	}
	return h.games[len(h.games)-1], true
}

// Stats returns a copy of the current aggregate.
func (h *History) Stats() model.Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats.Clone()
}

// StatsIn aggregates the counted games inside r. An unbounded range returns
// the cached aggregate.
func (h *History) StatsIn(r model.Range) model.Stats {
	if r.From == nil && r.To == nil {
		return h.Stats()
	}
	h.mu.RLock()
	counted := h.counted
	h.mu.RUnlock()
	return aggregator.Aggregate(inRange(counted, r))
}

// Continuous returns one snapshot per counted game inside r.
func (h *History) Continuous(r model.Range) []model.Snapshot {
	h.mu.RLock()
	counted := h.counted
	h.mu.RUnlock()
	// counted is replaced, never mutated, so it can be read without the lock.
	return aggregator.Continuous(counted, r)
}

func (h *History) countable(games []model.GameSummary) []model.GameSummary {
	if !h.genuineOnly {
		return games
	}
	return h.filter.Apply(games)
}

func inRange(games []model.GameSummary, r model.Range) []model.GameSummary {
	out := make([]model.GameSummary, 0)
	for _, g := range games {
		if r.Contains(g.RoundDate) {
			out = append(out, g)
		}
	}
	return out
}

func sortGames(games []model.GameSummary) {
	sort.SliceStable(games, func(i, j int) bool { return games[i].RoundDate < games[j].RoundDate })
}
