package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ns2-stats/internal/watch"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Parse round-stats JSON files into the database",
	Long: `Parse every *.json round-stats file in a directory and store it.
Files already in the database are skipped; invalid files are logged and skipped.
Games earlier ingested from the same directory whose file is gone or changed are removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := watch.Ingest(cmd.Context(), db, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Added %d, skipped %d, failed %d, removed %d.\n", res.Added, res.Skipped, res.Failed, res.Removed)
	return nil
}
