package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ns2-stats/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate numbers about every game stored in the database:
game count, date range, unique maps and players, and the per-map breakdown
of counted games.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	ov, err := db.Overview(ctx)
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Games == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'ns2stats ingest <dir>' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Games stored  : %d\n", ov.Games)
	fmt.Fprintf(os.Stdout, "  Date range    : %s → %s\n", report.FormatDate(ov.FirstGame), report.FormatDate(ov.LastGame))
	fmt.Fprintf(os.Stdout, "  Unique maps   : %d\n", ov.Maps)
	fmt.Fprintf(os.Stdout, "  Players seen  : %d\n", ov.Players)

	hist, err := loadHistory(ctx, db)
	if err != nil {
		return err
	}
	stats := hist.Stats()
	fmt.Fprintf(os.Stdout, "  Games counted : %d\n", stats.TotalGames)
	if stats.TotalGames == 0 {
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n--- Maps ---\n\n")
	report.PrintMapTable(os.Stdout, stats)
	return nil
}
