package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-ns2-stats/internal/balance"
	"github.com/pable/go-ns2-stats/internal/history"
	"github.com/pable/go-ns2-stats/internal/model"
	"github.com/pable/go-ns2-stats/internal/report"
	"github.com/pable/go-ns2-stats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shell keeps the database and loaded history open between commands.
type shell struct {
	db     *storage.DB
	hist   *history.History
	out    io.Writer
	errOut io.Writer
}

func runShell(cmd *cobra.Command, _ []string) error {
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
	sh := &shell{db: db, hist: hist, out: os.Stdout, errOut: os.Stderr}

	cGreeting.Println("ns2stats shell")
	cMuted.Printf("%d games loaded, type 'help' or 'exit'\n", hist.Len())
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("ns2stats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		if sh.exec(ctx, scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// exec runs one line and reports whether the session should end.
func (sh *shell) exec(ctx context.Context, line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false
	}
	name, args := tokens[0], tokens[1:]

	switch name {
	case "exit", "quit":
		return true
	case "help":
		sh.help()
	case "list":
		sh.list()
	case "show":
		player, rest := shellFlag(args, "--player")
		if len(rest) == 0 {
			cError.Fprintln(sh.errOut, "usage: show <id-prefix> [--player <name>]")
			return false
		}
		sh.show(ctx, rest[0], player)
	case "stats":
		sort, _ := shellFlag(args, "--sort")
		if sort == "" {
			sort = string(report.SortGames)
		}
		sh.stats(report.UserSort(sort))
	case "player":
		if len(args) == 0 {
			cError.Fprintln(sh.errOut, "usage: player <name> [<name>...]")
			return false
		}
		sh.player(args)
	case "teams":
		marineCom, rest := shellFlag(args, "--marine-com")
		alienCom, rest := shellFlag(rest, "--alien-com")
		pool := splitNames(rest)
		if len(pool) == 0 {
			cError.Fprintln(sh.errOut, "usage: teams <a,b,c,...> [--marine-com <name>] [--alien-com <name>]")
			return false
		}
		sh.teams(pool, optionalFlag(marineCom), optionalFlag(alienCom))
	case "reload":
		if err := sh.hist.Load(ctx, sh.db); err != nil {
			cError.Fprintf(sh.errOut, "error: %v\n", err)
			return false
		}
		cMuted.Fprintf(sh.out, "%d games loaded\n", sh.hist.Len())
	default:
		cWarn.Fprintf(sh.errOut, "unknown command %q, type 'help'\n", name)
	}
	return false
}

func (sh *shell) help() {
	fmt.Fprintln(sh.out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored games"},
		{"show <id-prefix> [--player <name>]", "show a game's scoreboard"},
		{"stats [--sort games|kd|score|wins]", "player and map statistics"},
		{"player <name> [...]", "cross-game totals for one or more players"},
		{"teams <a,b,c,...> [--marine-com n]", "suggest balanced teams (also --alien-com)"},
		{"reload", "reload games from the database"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(sh.out, "  ")
		cCmd.Fprintf(sh.out, "%-38s", r.cmd)
		fmt.Fprintln(sh.out, r.desc)
	}
	fmt.Fprintln(sh.out)
}

func (sh *shell) list() {
	games := sh.hist.Games(model.Range{})
	if len(games) == 0 {
		cMuted.Fprintln(sh.out, "No games stored yet.")
		return
	}
	report.PrintGameList(sh.out, games)
}

func (sh *shell) show(ctx context.Context, prefix, player string) {
	game, err := sh.db.GetGameByPrefix(ctx, prefix)
	if err != nil {
		cError.Fprintf(sh.errOut, "error: %v\n", err)
		return
	}
	if game == nil {
		fmt.Fprintf(sh.errOut, "no game found with prefix %q\n", prefix)
		return
	}
	report.PrintGameSummary(sh.out, *game)
	report.PrintGameTable(sh.out, *game, player)
}

func (sh *shell) stats(by report.UserSort) {
	stats := sh.hist.Stats()
	report.PrintOverview(sh.out, stats)
	if stats.TotalGames == 0 {
		return
	}
	report.PrintUserTable(sh.out, stats, by, 1)
	fmt.Fprintln(sh.out)
	report.PrintMapTable(sh.out, stats)
}

func (sh *shell) player(names []string) {
	stats := sh.hist.Stats()
	for _, name := range names {
		u, ok := stats.Users[name]
		if !ok {
			fmt.Fprintf(sh.errOut, "no counted games for %q\n", name)
			continue
		}
		report.PrintPlayerCard(sh.out, name, u)
	}
}

func (sh *shell) teams(pool []string, marineCom, alienCom *string) {
	skill, err := balance.SkillFromStats(sh.hist.Stats(), balance.MetricScore, pool)
	if err != nil {
		cError.Fprintf(sh.errOut, "error: %v\n", err)
		return
	}
	teams, err := balance.SuggestTeams(balance.Request{Pool: pool, Skill: skill, MarineCom: marineCom, AlienCom: alienCom})
	if err != nil {
		cError.Fprintf(sh.errOut, "error: %v\n", err)
		return
	}
	report.PrintTeams(sh.out, teams.Marines, teams.Aliens, skill, marineCom, alienCom)
	cHeader.Fprintf(sh.out, "\nImbalance: %.2f\n", teams.Imbalance)
}

// shellFlag removes "name value" from args and returns the value.
func shellFlag(args []string, name string) (string, []string) {
	var value string
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == name && i+1 < len(args) {
			value = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	return value, rest
}
