// Package parser reads NS2 round-stats JSON files into validated GameSummary values.
package parser

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-ns2-stats/internal/model"
)

// ErrInvalidGame wraps every schema or invariant violation found while parsing.
var ErrInvalidGame = model.ErrInvalidGame

// Resource tower tech ids per team.
var rtTech = map[model.Team]string{
	model.TeamMarines: "Extractor",
	model.TeamAliens:  "Harvester",
}

// ParseFile reads and summarizes one round file.
func ParseFile(path string) (*model.GameSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read round: %w", err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return g, nil
}

// Parse summarizes the JSON of one round. The game ID is the sha256 of data.
func Parse(data []byte) (*model.GameSummary, error) {
	var raw rawRound
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidGame, err)
	}

	g := summarize(&raw)
	g.ID = fmt.Sprintf("%x", sha256.Sum256(data))
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// summarize converts a decoded round into a GameSummary. Each player is put on
// the side they played longest, so side switchers appear once.
func summarize(raw *rawRound) *model.GameSummary {
	g := &model.GameSummary{
		RoundDate:   raw.RoundInfo.RoundDate,
		WinningTeam: model.WinningTeam(raw.RoundInfo.WinningTeam),
		RoundLength: raw.RoundInfo.RoundLength,
		MapName:     raw.RoundInfo.MapName,
		Marines:     model.TeamSummary{Players: make(map[string]model.PlayerSummary)},
		Aliens:      model.TeamSummary{Players: make(map[string]model.PlayerSummary)},
	}

	// Walk players in steam id order so commander ties resolve the same way every run.
	ids := make([]string, 0, len(raw.PlayerStats))
	for id := range raw.PlayerStats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	comTime := map[model.Team]float64{}
	taken := map[string]bool{}
	for _, id := range ids {
		p := raw.PlayerStats[id]
		if p.Marines.TimePlayed > 0 {
			g.Marines.Played++
		}
		if p.Aliens.TimePlayed > 0 {
			g.Aliens.Played++
		}
		team := mainTeam(p)
		if team == model.TeamUnknown {
			continue
		}
		name := strings.TrimSpace(p.PlayerName)
		if name == "" {
			name = id
		}
		// Two accounts sharing a name (NSPlayer) must not collide.
		if taken[name] {
			name += "#" + id
		}
		taken[name] = true
		st := p.Marines
		side := &g.Marines
		if team == model.TeamAliens {
			st = p.Aliens
			side = &g.Aliens
		}
		side.Players[name] = model.PlayerSummary{
			Kills:   st.Kills,
			Assists: st.Assists,
			Deaths:  st.Deaths,
			Score:   st.Score,
			Hits:    st.Hits,
			Misses:  st.Misses,
		}
		if st.CommanderTime > comTime[team] {
			comTime[team] = st.CommanderTime
			side.Commander = &name
		}
	}

	g.Marines.RTGraph = rtGraph(raw.Buildings, model.TeamMarines)
	g.Aliens.RTGraph = rtGraph(raw.Buildings, model.TeamAliens)
	return g
}

// mainTeam returns the side p spent the most time on, or TeamUnknown for spectators.
func mainTeam(p rawPlayer) model.Team {
	m, a := p.Marines.TimePlayed, p.Aliens.TimePlayed
	switch {
	case m <= 0 && a <= 0:
		return model.TeamUnknown
	case m > a:
		return model.TeamMarines
	case a > m:
		return model.TeamAliens
	case p.LastTeam == int(model.TeamAliens):
		return model.TeamAliens
	default:
		return model.TeamMarines
	}
}

// rtGraph replays resource tower completions and losses for one team.
func rtGraph(buildings []rawBuilding, team model.Team) []model.RTSample {
	events := make([]rawBuilding, 0)
	for _, b := range buildings {
		if b.Team == int(team) && b.TechID == rtTech[team] {
			events = append(events, b)
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].GameTime < events[j].GameTime })

	var (
		out   []model.RTSample
		count int
	)
	for _, b := range events {
		switch {
		case (b.Destroyed || b.Recycled) && b.Built:
			count = max(count-1, 0)
		case b.Built && !b.Destroyed && !b.Recycled:
			count++
		default:
			continue // unfinished tower lost or placed
		}
		out = append(out, model.RTSample{Time: b.GameTime, Value: count})
	}
	return out
}

// Result is one parsed file from ParseDir.
type Result struct {
	Path string
	Game *model.GameSummary
	Err  error
}

// ParseDir parses every *.json file in dir concurrently. Per-file failures are
// reported in Result.Err; the returned error is only set when the directory
// itself cannot be read or ctx is canceled. Results are ordered by path.
func ParseDir(ctx context.Context, dir string, workers int) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			game, err := ParseFile(path)
			results[i] = Result{Path: path, Game: game, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parse dir: %w", err)
	}
	return results, nil
}
