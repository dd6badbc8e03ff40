package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ns2-stats/internal/report"
)

var (
	statsSort     string
	statsMinGames int
	statsRange    rangeFlags
	statsJSON     jsonFlags
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate player and map statistics",
	Long: `Aggregate every counted game into per-player and per-map statistics.
By default only genuine games count (5+ minutes, 3+ players a side); pass --all to count every game.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsSort, "sort", string(report.SortGames), "sort players by: games, kd, score or wins")
	statsCmd.Flags().IntVar(&statsMinGames, "min-games", 1, "hide players with fewer games")
	statsRange.register(statsCmd)
	statsJSON.register(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	by := report.UserSort(statsSort)
	switch by {
	case report.SortGames, report.SortKD, report.SortScore, report.SortWins:
	default:
		return fmt.Errorf("unknown sort %q", statsSort)
	}
	r, err := statsRange.Range()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	hist, err := loadHistory(cmd.Context(), db)
	if err != nil {
		return err
	}

	stats := hist.StatsIn(r)
	if statsJSON.enabled() {
		return statsJSON.write(cmd.OutOrStdout(), stats)
	}

	report.PrintOverview(os.Stdout, stats)
	if stats.TotalGames == 0 {
		return nil
	}
	fmt.Fprintf(os.Stdout, "--- Players ---\n\n")
	report.PrintUserTable(os.Stdout, stats, by, statsMinGames)
	fmt.Fprintf(os.Stdout, "\n--- Maps ---\n\n")
	report.PrintMapTable(os.Stdout, stats)
	return nil
}
