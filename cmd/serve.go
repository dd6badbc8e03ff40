package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-ns2-stats/internal/api"
	"github.com/pable/go-ns2-stats/internal/config"
	"github.com/pable/go-ns2-stats/internal/log"
	"github.com/pable/go-ns2-stats/internal/watch"
)

var serveHTTPLog bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games and stats over HTTP",
	Long: `Start the HTTP API. When a data directory is configured, new round files
dropped into it are ingested and the stats reloaded automatically.

Routes:
  GET /games?from=&to=            every stored game, oldest first
  GET /games/latest               the most recent game
  GET /stats                      aggregate of counted games
  GET /stats/continuous?from=&to= one cumulative snapshot per counted game
  GET /teams?players=&marine_com=&alien_com=&skill=`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.String("data", "", "directory of round-stats JSON files to watch")
	flags.String("host", config.DefaultHost, "listen address")
	flags.Int("port", config.DefaultPort, "listen port")
	flags.BoolVar(&serveHTTPLog, "http-log", true, "log every request")

	_ = vcfg.BindPFlag("data_dir", flags.Lookup("data"))
	_ = vcfg.BindPFlag("http.host", flags.Lookup("host"))
	_ = vcfg.BindPFlag("http.port", flags.Lookup("port"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	hist, err := loadHistory(ctx, db)
	if err != nil {
		return err
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	router := api.CreateRouter(api.RouterOpts{
		HTTPLogEnabled: serveHTTPLog,
		LogLevel:       level,
		Mode:           cfg.HTTP.Mode,
	})
	api.RegisterHandlers(router, hist)
	httpServer := api.NewServer(cfg.HTTP.Addr(), router)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.DataDir != "" {
		watcher := watch.New(cfg.DataDir, db, hist)
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()

		slog.Info("Shutting down HTTP service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if errShutdown := httpServer.Shutdown(shutdownCtx); errShutdown != nil { //nolint:contextcheck
			slog.Error("Error shutting down http service", log.ErrAttr(errShutdown))
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("Starting HTTP server", slog.String("address", httpServer.Addr),
			slog.Int("games", hist.Len()), slog.String("data_dir", cfg.DataDir))

		if errServe := httpServer.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			return errServe
		}
		return nil
	})

	err = g.Wait()
	slog.Info("Exiting...")
	return err
}
