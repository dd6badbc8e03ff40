// Package watch ingests NS2 round files into the game store and keeps the
// in-memory history current as new files land in the data directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/pable/go-ns2-stats/internal/model"
	"github.com/pable/go-ns2-stats/internal/parser"
)

// Store is the subset of the game store ingestion needs.
type Store interface {
	GameExists(ctx context.Context, id string) (bool, error)
	InsertGame(ctx context.Context, g *model.GameSummary, source string) error
	ListGames(ctx context.Context, r model.Range) ([]model.GameSummary, error)
	GameSources(ctx context.Context) (map[string]string, error)
	DeleteGame(ctx context.Context, id string) (bool, error)
}

// Result counts what one ingestion pass did.
type Result struct {
	Added   int
	Skipped int // already stored
	Failed  int // unreadable or invalid files
	Removed int // stored games whose file left dir or changed
}

// Ingest parses every round file in dir and stores the ones not seen before.
// Invalid files are logged and counted, they do not stop the pass. Games
// previously ingested from dir whose file is gone, or now holds a different
// round, are removed so the store mirrors the directory.
func Ingest(ctx context.Context, store Store, dir string) (Result, error) {
	var res Result
	dir, err := filepath.Abs(dir)
	if err != nil {
		return res, fmt.Errorf("resolve dir: %w", err)
	}
	parsed, err := parser.ParseDir(ctx, dir, runtime.GOMAXPROCS(0))
	if err != nil {
		return res, err
	}
	present := make(map[string]bool, len(parsed))
	for _, p := range parsed {
		if p.Err == nil {
			present[p.Game.ID] = true
		}
	}
	if res.Removed, err = prune(ctx, store, dir, present); err != nil {
		return res, err
	}

	for _, p := range parsed {
		if p.Err != nil {
			slog.Warn("skipping round file", slog.String("file", filepath.Base(p.Path)), slog.String("error", p.Err.Error()))
			res.Failed++
			continue
		}
		exists, err := store.GameExists(ctx, p.Game.ID)
		if err != nil {
			return res, fmt.Errorf("check game: %w", err)
		}
		if exists {
			res.Skipped++
			continue
		}
		if err := store.InsertGame(ctx, p.Game, p.Path); err != nil {
			return res, fmt.Errorf("store %s: %w", filepath.Base(p.Path), err)
		}
		slog.Debug("stored game", slog.String("id", p.Game.ID[:12]), slog.String("map", p.Game.MapName))
		res.Added++
	}
	return res, nil
}

func prune(ctx context.Context, store Store, dir string, present map[string]bool) (int, error) {
	sources, err := store.GameSources(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sources: %w", err)
	}
	removed := 0
	for id, source := range sources {
		if source == "" || filepath.Dir(source) != dir || present[id] {
			continue
		}
		ok, err := store.DeleteGame(ctx, id)
		if err != nil {
			return removed, fmt.Errorf("remove %s: %w", filepath.Base(source), err)
		}
		if ok {
			slog.Info("removed game", slog.String("file", filepath.Base(source)), slog.String("id", id[:min(12, len(id))]))
			removed++
		}
	}
	return removed, nil
}
