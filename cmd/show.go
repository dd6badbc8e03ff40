package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ns2-stats/internal/report"
)

var (
	showPlayer string
	showRT     bool
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a stored game by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight player name")
	showCmd.Flags().BoolVar(&showRT, "rt", false, "also print the resource tower timeline")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	game, err := db.GetGameByPrefix(cmd.Context(), prefix)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game found with id prefix %q\n", prefix)
		return nil
	}

	report.PrintGameSummary(os.Stdout, *game)
	report.PrintGameTable(os.Stdout, *game, showPlayer)
	if showRT {
		report.PrintRTGraph(os.Stdout, *game)
	}
	return nil
}
