package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-ns2-stats/internal/config"
	"github.com/pable/go-ns2-stats/internal/history"
	"github.com/pable/go-ns2-stats/internal/log"
	"github.com/pable/go-ns2-stats/internal/storage"
)

var (
	dbPath     string
	configPath string
	allGames   bool

	cfg       config.Config
	vcfg      = config.NewViper()
	logCloser = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "ns2stats",
	Short: "Natural Selection 2 round statistics and team balancing",
	Long: `Ingest NS2 round-stats JSON files, compute per-player and per-map
statistics, and suggest balanced marine/alien teams.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(*cobra.Command, []string) { logCloser() },
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dbPath, "db", config.DefaultDBPath(), "path to SQLite database")
	flags.StringVar(&configPath, "config", "", "config file (default ./ns2stats.yml or ~/.ns2stats/ns2stats.yml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.BoolVar(&allGames, "all", false, "count every game, not only rounds of 5+ minutes with 3+ players a side")

	_ = vcfg.BindPFlag("db", flags.Lookup("db"))
	_ = vcfg.BindPFlag("log_level", flags.Lookup("log-level"))

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(continuousCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(vcfg, configPath)
	if err != nil {
		return err
	}
	if allGames {
		loaded.Stats.GenuineOnly = false
	}
	cfg = loaded
	dbPath = cfg.DB

	level, _ := log.ParseLevel(cfg.LogLevel)
	closer, err := log.Setup(cmd.ErrOrStderr(), level, cfg.LogFile)
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

// openDB opens the configured database, creating its directory first.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// loadHistory reads every stored game into a history using the configured filter.
func loadHistory(ctx context.Context, db *storage.DB) (*history.History, error) {
	hist := history.New(cfg.Stats.Filter(), cfg.Stats.GenuineOnly)
	if err := hist.Load(ctx, db); err != nil {
		return nil, err
	}
	return hist, nil
}
