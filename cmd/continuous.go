package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ns2-stats/internal/report"
)

var (
	continuousPlayer string
	continuousRange  rangeFlags
	continuousJSON   jsonFlags
)

var continuousCmd = &cobra.Command{
	Use:   "continuous",
	Short: "Show how stats evolved game by game",
	Long: `Print one row per counted game with the cumulative aggregate up to and
including that game. Only games inside --from/--to are accumulated.`,
	Args: cobra.NoArgs,
	RunE: runContinuous,
}

func init() {
	continuousCmd.Flags().StringVar(&continuousPlayer, "player", "", "add this player's running numbers")
	continuousRange.register(continuousCmd)
	continuousJSON.register(continuousCmd)
}

func runContinuous(cmd *cobra.Command, args []string) error {
	r, err := continuousRange.Range()
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

	snaps := hist.Continuous(r)
	if continuousJSON.enabled() {
		return continuousJSON.write(cmd.OutOrStdout(), snaps)
	}
	if len(snaps) == 0 {
		fmt.Fprintln(os.Stdout, "No games in range.")
		return nil
	}
	report.PrintContinuousTable(os.Stdout, snaps, continuousPlayer)
	return nil
}
