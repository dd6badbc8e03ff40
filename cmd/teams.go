package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ns2-stats/internal/balance"
	"github.com/pable/go-ns2-stats/internal/report"
)

var (
	teamsPlayers   []string
	teamsMarineCom string
	teamsAlienCom  string
	teamsSkill     string
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Suggest balanced marine/alien teams",
	Long: `Split the given players into two teams whose total skill is as close as
possible. Skill comes from stored games; players without history get the pool average.`,
	Example: `  ns2stats teams --teams alice,bob,carol,dave --marine-com alice
  ns2stats teams --teams alice,bob --teams carol,dave --skill kda`,
	Args: cobra.NoArgs,
	RunE: runTeams,
}

func init() {
	teamsCmd.Flags().StringSliceVar(&teamsPlayers, "teams", nil, "comma separated players to split (repeatable)")
	teamsCmd.Flags().StringVar(&teamsMarineCom, "marine-com", "", "player pinned as marine commander")
	teamsCmd.Flags().StringVar(&teamsAlienCom, "alien-com", "", "player pinned as alien commander")
	teamsCmd.Flags().StringVar(&teamsSkill, "skill", string(balance.MetricScore), "skill signal: score, kda or wins")
	_ = teamsCmd.MarkFlagRequired("teams")
}

func runTeams(cmd *cobra.Command, args []string) error {
	pool := splitNames(teamsPlayers)
	marineCom, alienCom := optionalFlag(teamsMarineCom), optionalFlag(teamsAlienCom)

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	hist, err := loadHistory(ctx, db)
	if err != nil {
		return err
	}

	skill, err := balance.SkillFromStats(hist.Stats(), balance.SkillMetric(teamsSkill), pool)
	if err != nil {
		return err
	}
	teams, err := balance.SuggestTeams(balance.Request{
		Pool:      pool,
		Skill:     skill,
		MarineCom: marineCom,
		AlienCom:  alienCom,
	})
	if err != nil {
		return err
	}

	counts, err := db.PlayerGameCounts(ctx, pool)
	if err != nil {
		return fmt.Errorf("count player games: %w", err)
	}
	for _, c := range counts {
		if c.Games == 0 {
			fmt.Fprintf(os.Stderr, "No stored games for %q, using the pool average.\n", c.Name)
		}
	}

	report.PrintTeams(os.Stdout, teams.Marines, teams.Aliens, skill, marineCom, alienCom)
	fmt.Fprintf(os.Stdout, "\nImbalance: %.2f\n", teams.Imbalance)

	past := balance.PastRosters(hist.Counted(), pool, marineCom, alienCom)
	if len(past) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Earlier games with this roster ---\n\n")
		report.PrintGameList(os.Stdout, past)
	}
	return nil
}

func optionalFlag(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
