package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dropForce bool
	dropGame  string
)

// dropCmd deletes one game or the whole stats database.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete a stored game or the whole database",
	Long: `Without --game, permanently delete the SQLite stats database. All stored games
will be lost; re-ingest your round files afterwards to rebuild.
With --game, delete only the game whose id starts with the given prefix.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropGame, "game", "", "delete only the game with this id prefix")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropGame != "" {
		return dropOneGame(cmd, dropGame)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropOneGame(cmd *cobra.Command, prefix string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	game, err := db.GetGameByPrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game found with id prefix %q\n", prefix)
		return nil
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete game %s on %s (%s).\n", game.ID, game.MapName, game.WinningTeam)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if _, err := db.DeleteGame(ctx, game.ID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted game %s\n", game.ID)
	return nil
}
