package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pable/go-ns2-stats/internal/history"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before syncing. Round files are written in several chunks.
const DefaultDebounce = 500 * time.Millisecond

// Watcher syncs a data directory into the store and history.
type Watcher struct {
	dir      string
	store    Store
	hist     *history.History
	debounce time.Duration
	synced   chan Result // optional, receives the result of every sync
}

// New returns a watcher for dir.
func New(dir string, store Store, hist *history.History) *Watcher {
	return &Watcher{dir: dir, store: store, hist: hist, debounce: DefaultDebounce}
}

// Sync ingests new files and reloads the history from the store.
func (w *Watcher) Sync(ctx context.Context) (Result, error) {
	res, err := Ingest(ctx, w.store, w.dir)
	if err != nil {
		return res, err
	}
	if err := w.hist.Load(ctx, w.store); err != nil {
		return res, err
	}
	slog.Info("data synced", slog.Int("added", res.Added), slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed), slog.Int("removed", res.Removed), slog.Int("games", w.hist.Len()))
	if w.synced != nil {
		select {
		case w.synced <- res:
		default:
		}
	}
	return res, nil
}

// Run syncs once, then again after every burst of json file events, until ctx
// is done. Sync failures after startup are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		if errW := watcher.Close(); errW != nil {
			slog.Error("failed to close watcher cleanly", slog.String("error", errW.Error()))
		}
	}()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	if _, err := w.Sync(ctx); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			slog.Debug("round file event", slog.String("file", filepath.Base(event.Name)), slog.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case errW, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("file watcher error", slog.String("error", errW.Error()))
		case <-timer.C:
			if _, err := w.Sync(ctx); err != nil {
				slog.Error("sync failed", slog.String("error", err.Error()))
			}
		}
	}
}

func relevant(e fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(e.Name), ".json") {
		return false
	}
	return e.Has(fsnotify.Create) || e.Has(fsnotify.Write) || e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename)
}
