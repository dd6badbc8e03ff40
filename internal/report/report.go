package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"

	"github.com/pable/go-ns2-stats/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// ShortID is the prefix of a game id shown in tables and accepted by show.
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// FormatDate renders a unix-seconds round date in local time.
func FormatDate(ts int64) string {
	return time.Unix(ts, 0).Local().Format("2006-01-02 15:04")
}

// FormatLength renders a round length as m:ss.
func FormatLength(seconds float64) string {
	s := int(seconds + 0.5)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func commander(t model.TeamSummary) string {
	if t.Commander == nil {
		return "—"
	}
	return *t.Commander
}

// PrintGameList prints one row per game, newest first.
func PrintGameList(w io.Writer, games []model.GameSummary) {
	table := newTable(w)
	table.Header("ID", "DATE", "AGO", "MAP", "LENGTH", "WINNER", "PLAYERS", "MARINE_COM", "ALIEN_COM")

	for i := len(games) - 1; i >= 0; i-- {
		g := games[i]
		table.Append(
			ShortID(g.ID),
			FormatDate(g.RoundDate),
			humanize.Time(time.Unix(g.RoundDate, 0)),
			g.MapName,
			FormatLength(g.RoundLength),
			g.WinningTeam.String(),
			fmt.Sprintf("%d v %d", len(g.Marines.Players), len(g.Aliens.Players)),
			commander(g.Marines),
			commander(g.Aliens),
		)
	}
	table.Render()
}

// PrintGameSummary prints a one-line header for a game.
func PrintGameSummary(w io.Writer, g model.GameSummary) {
	fmt.Fprintf(w, "\nMap: %s  |  Date: %s (%s)  |  Length: %s  |  Winner: %s  |  ID: %s\n\n",
		g.MapName, FormatDate(g.RoundDate), humanize.Time(time.Unix(g.RoundDate, 0)),
		FormatLength(g.RoundLength), g.WinningTeam, ShortID(g.ID))
}

// PrintGameTable prints every player of a game. If focus is non-empty, that
// player's row is marked with ">". Commanders are marked with "C".
func PrintGameTable(w io.Writer, g model.GameSummary, focus string) {
	table := newTable(w)
	table.Header(" ", "NAME", "TEAM", "COM", "K", "A", "D", "K/D", "ACC%", "SCORE")

	for _, team := range []model.Team{model.TeamMarines, model.TeamAliens} {
		side := g.Side(team)
		names := lo.Keys(side.Players)
		sort.Slice(names, func(i, j int) bool {
			a, b := side.Players[names[i]], side.Players[names[j]]
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			p := side.Players[name]
			marker := " "
			if focus != "" && name == focus {
				marker = ">"
			}
			com := ""
			if side.IsCommander(name) {
				com = "C"
			}
			kd := float64(p.Kills)
			if p.Deaths > 0 {
				kd /= float64(p.Deaths)
			}
			acc := "—"
			if p.Hits+p.Misses > 0 {
				acc = fmt.Sprintf("%.0f%%", float64(p.Hits)/float64(p.Hits+p.Misses)*100)
			}
			table.Append(
				marker, name, team.String(), com,
				strconv.Itoa(p.Kills), strconv.Itoa(p.Assists), strconv.Itoa(p.Deaths),
				fmt.Sprintf("%.2f", kd), acc, strconv.Itoa(p.Score),
			)
		}
	}
	table.Render()
}

// PrintRTGraph prints the resource tower count of both teams at every change.
func PrintRTGraph(w io.Writer, g model.GameSummary) {
	type point struct {
		time  float64
		team  model.Team
		value int
	}
	var points []point
	for _, s := range g.Marines.RTGraph {
		points = append(points, point{s.Time, model.TeamMarines, s.Value})
	}
	for _, s := range g.Aliens.RTGraph {
		points = append(points, point{s.Time, model.TeamAliens, s.Value})
	}
	if len(points) == 0 {
		fmt.Fprintln(w, "(no resource tower events)")
		return
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].time < points[j].time })

	table := newTable(w)
	table.Header("TIME", "MARINE_RTS", "ALIEN_RTS")
	marines, aliens := 0, 0
	for _, p := range points {
		if p.team == model.TeamMarines {
			marines = p.value
		} else {
			aliens = p.value
		}
		table.Append(FormatLength(p.time), strconv.Itoa(marines), strconv.Itoa(aliens))
	}
	table.Render()
}

// PrintOverview prints the headline numbers of a Stats.
func PrintOverview(w io.Writer, s model.Stats) {
	if s.TotalGames == 0 {
		fmt.Fprintln(w, "No games recorded.")
		return
	}
	fmt.Fprintf(w, "\nGames: %s  |  Marine wins: %d (%.0f%%)  |  Alien wins: %d  |  Players: %d  |  Latest: %s\n\n",
		humanize.Comma(int64(s.TotalGames)), s.MarineWins, s.MarineWinRate(), s.AlienWins,
		len(s.Users), humanize.Time(time.Unix(s.LatestGame, 0)))
}

// UserSort names a column PrintUserTable can order by.
type UserSort string

const (
	SortGames UserSort = "games"
	SortKD    UserSort = "kd"
	SortScore UserSort = "score"
	SortWins  UserSort = "wins"
)

// PrintUserTable prints one row per player with at least minGames games.
func PrintUserTable(w io.Writer, s model.Stats, by UserSort, minGames int) {
	names := lo.Filter(lo.Keys(s.Users), func(name string, _ int) bool {
		return s.Users[name].Games.Total >= minGames
	})
	key := func(u model.UserStats) float64 {
		switch by {
		case SortKD:
			return u.KD()
		case SortScore:
			return u.ScorePerGame(model.TeamUnknown)
		case SortWins:
			return u.WinRate()
		default:
			return float64(u.Games.Total)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := s.Users[names[i]], s.Users[names[j]]
		if ka, kb := key(a), key(b); ka != kb {
			return ka > kb
		}
		return names[i] < names[j]
	})

	table := newTable(w)
	table.Header("NAME", "GAMES", "MAR/ALI", "COM", "WIN%", "K", "A", "D", "K/D", "KDA", "ACC%", "SCORE/G", "MAR_SCORE/G", "ALI_SCORE/G")
	for _, name := range names {
		u := s.Users[name]
		table.Append(
			name,
			strconv.Itoa(u.Games.Total),
			fmt.Sprintf("%d/%d", u.Games.Marines, u.Games.Aliens),
			strconv.Itoa(u.Commander.Total),
			fmt.Sprintf("%.0f%%", u.WinRate()),
			strconv.Itoa(u.Kills.Total),
			strconv.Itoa(u.Assists.Total),
			strconv.Itoa(u.Deaths.Total),
			fmt.Sprintf("%.2f", u.KD()),
			fmt.Sprintf("%.2f", u.KDA()),
			fmt.Sprintf("%.0f%%", u.Accuracy()),
			fmt.Sprintf("%.1f", u.ScorePerGame(model.TeamUnknown)),
			fmt.Sprintf("%.1f", u.ScorePerGame(model.TeamMarines)),
			fmt.Sprintf("%.1f", u.ScorePerGame(model.TeamAliens)),
		)
	}
	table.Render()
}

// PrintPlayerCard prints one player's totals split by side.
func PrintPlayerCard(w io.Writer, name string, u model.UserStats) {
	fmt.Fprintf(w, "\n=== %s ===\n\n", name)
	table := newTable(w)
	table.Header("SIDE", "GAMES", "COM", "WINS", "K", "A", "D", "HITS", "MISSES", "SCORE/G")
	for _, t := range []model.Team{model.TeamMarines, model.TeamAliens, model.TeamUnknown} {
		label := t.String()
		if t == model.TeamUnknown {
			label = "total"
		}
		table.Append(
			label,
			strconv.Itoa(u.Games.Side(t)),
			strconv.Itoa(u.Commander.Side(t)),
			strconv.Itoa(u.Wins.Side(t)),
			strconv.Itoa(u.Kills.Side(t)),
			strconv.Itoa(u.Assists.Side(t)),
			strconv.Itoa(u.Deaths.Side(t)),
			strconv.Itoa(u.Hits.Side(t)),
			strconv.Itoa(u.Misses.Side(t)),
			fmt.Sprintf("%.1f", u.ScorePerGame(t)),
		)
	}
	table.Render()
	fmt.Fprintf(w, "\nWin rate %.0f%%  |  K/D %.2f  |  KDA %.2f  |  Accuracy %.0f%%\n",
		u.WinRate(), u.KD(), u.KDA(), u.Accuracy())
}

// PrintMapTable prints per-map results, most played first.
func PrintMapTable(w io.Writer, s model.Stats) {
	names := lo.Keys(s.Maps)
	sort.Slice(names, func(i, j int) bool {
		a, b := s.Maps[names[i]], s.Maps[names[j]]
		if a.TotalGames != b.TotalGames {
			return a.TotalGames > b.TotalGames
		}
		return names[i] < names[j]
	})

	table := newTable(w)
	table.Header("MAP", "GAMES", "MARINE_W", "ALIEN_W", "DRAWS", "MARINE_W%")
	for _, name := range names {
		m := s.Maps[name]
		table.Append(
			name,
			strconv.Itoa(m.TotalGames),
			strconv.Itoa(m.MarineWins),
			strconv.Itoa(m.AlienWins),
			strconv.Itoa(m.Draws()),
			fmt.Sprintf("%.0f%%", m.MarineWinRate()),
		)
	}
	table.Render()
}

// PrintContinuousTable prints how the aggregate evolved game by game. When
// player is set, that player's running numbers are added.
func PrintContinuousTable(w io.Writer, snaps []model.Snapshot, player string) {
	table := newTable(w)
	if player != "" {
		table.Header("DATE", "GAMES", "MARINE_W%", player+"_GAMES", player+"_WIN%", player+"_K/D", player+"_SCORE/G")
	} else {
		table.Header("DATE", "GAMES", "MARINE_W%", "PLAYERS", "MAPS")
	}

	for _, snap := range snaps {
		s := snap.Stats
		row := []any{FormatDate(snap.Timestamp), strconv.Itoa(s.TotalGames), fmt.Sprintf("%.0f%%", s.MarineWinRate())}
		if player != "" {
			u, ok := s.Users[player]
			if !ok {
				row = append(row, "0", "—", "—", "—")
			} else {
				row = append(row,
					strconv.Itoa(u.Games.Total),
					fmt.Sprintf("%.0f%%", u.WinRate()),
					fmt.Sprintf("%.2f", u.KD()),
					fmt.Sprintf("%.1f", u.ScorePerGame(model.TeamUnknown)))
			}
		} else {
			row = append(row, strconv.Itoa(len(s.Users)), strconv.Itoa(len(s.Maps)))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintTeams prints a suggested split side by side with per-player skill.
func PrintTeams(w io.Writer, marines, aliens []string, skill func(string) float64, marineCom, alienCom *string) {
	table := newTable(w)
	table.Header("MARINES", "SKILL", "ALIENS", "SKILL")

	label := func(name string, com *string) string {
		if com != nil && *com == name {
			return name + " (C)"
		}
		return name
	}
	var marineSum, alienSum float64
	for i := 0; i < max(len(marines), len(aliens)); i++ {
		row := []any{"", "", "", ""}
		if i < len(marines) {
			v := skill(marines[i])
			marineSum += v
			row[0], row[1] = label(marines[i], marineCom), fmt.Sprintf("%.2f", v)
		}
		if i < len(aliens) {
			v := skill(aliens[i])
			alienSum += v
			row[2], row[3] = label(aliens[i], alienCom), fmt.Sprintf("%.2f", v)
		}
		table.Append(row...)
	}
	table.Footer("TOTAL", fmt.Sprintf("%.2f", marineSum), "TOTAL", fmt.Sprintf("%.2f", alienSum))
	table.Render()
}
