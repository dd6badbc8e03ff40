package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ns2-stats/internal/report"
)

var listRange rangeFlags

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored games, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listRange.register(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	r, err := listRange.Range()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	games, err := db.ListGames(cmd.Context(), r)
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'ns2stats ingest <dir>' to add some.")
		return nil
	}
	report.PrintGameList(os.Stdout, games)
	return nil
}
