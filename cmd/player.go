package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ns2-stats/internal/model"
	"github.com/pable/go-ns2-stats/internal/report"
)

var playerLast int

// playerCmd prints the aggregate and recent games of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <name> [<name>...]",
	Short: "Cross-game statistics for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().IntVar(&playerLast, "last", 10, "number of recent games to list (0 for none)")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	hist, err := loadHistory(cmd.Context(), db)
	if err != nil {
		return err
	}
	stats := hist.Stats()

	for _, name := range args {
		u, ok := stats.Users[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "No counted games for player %q\n", name)
			continue
		}
		report.PrintPlayerCard(os.Stdout, name, u)

		if playerLast <= 0 {
			continue
		}
		games := playedBy(hist.Games(model.Range{}), name)
		if len(games) > playerLast {
			games = games[len(games)-playerLast:]
		}
		fmt.Fprintln(os.Stdout)
		report.PrintGameList(os.Stdout, games)
	}
	return nil
}

// playedBy keeps the games name took part in.
func playedBy(games []model.GameSummary, name string) []model.GameSummary {
	var out []model.GameSummary
	for _, g := range games {
		if g.TeamOf(name) != model.TeamUnknown {
			out = append(out, g)
		}
	}
	return out
}
