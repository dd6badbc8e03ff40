// Package balance suggests marine/alien splits of a player pool with the
// smallest difference in total skill.
package balance

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/samber/lo"
)

var (
	ErrInvalidCommander    = errors.New("commander is not in the player pool")
	ErrInsufficientPlayers = errors.New("at least two players are needed to form teams")
)

// MaxExhaustive is the largest number of unpinned players the exhaustive
// search handles before SuggestTeams falls back to Greedy.
const MaxExhaustive = 24

// SkillFunc returns the skill signal for one player.
type SkillFunc func(player string) float64

// Request is the input to SuggestTeams.
type Request struct {
	Pool      []string
	Skill     SkillFunc
	MarineCom *string // pinned to marines when set
	AlienCom  *string // pinned to aliens when set

	// Strategy overrides the search. Nil picks Exhaustive when the free pool
	// is at most MaxExhaustive players and Greedy otherwise.
	Strategy Strategy
}

// Teams is a suggested split. Commanders come first, the rest sorted by name.
type Teams struct {
	Marines     []string `json:"marines"`
	Aliens      []string `json:"aliens"`
	MarineSkill float64  `json:"marine_skill"`
	AlienSkill  float64  `json:"alien_skill"`
	Imbalance   float64  `json:"imbalance"`
}

// Candidate is an unpinned player and its skill.
type Candidate struct {
	Name  string
	Skill float64
}

// Problem is what a Strategy has to solve: place exactly MarineSlots of the
// candidates on marines (any value in MarineSlots is acceptable), starting from
// the pinned skill already on each side.
type Problem struct {
	Candidates  []Candidate // sorted by name
	MarineSlots []int
	MarineBase  float64
	AlienBase   float64
}

// Strategy searches for a partition. The returned slice is parallel to
// Candidates and is true for players placed on marines.
type Strategy interface {
	Split(p Problem) []bool
}

// SuggestTeams partitions the pool into two teams whose sizes differ by at
// most one, minimising the absolute skill difference. Ties are broken by the
// lexicographically smallest list of unpinned marines, so equal input gives
// equal output.
func SuggestTeams(req Request) (Teams, error) {
	pool := lo.Uniq(req.Pool)
	if len(pool) < 2 {
		return Teams{}, fmt.Errorf("%w: got %d", ErrInsufficientPlayers, len(pool))
	}
	if err := checkCommander(pool, req.MarineCom); err != nil {
		return Teams{}, err
	}
	if err := checkCommander(pool, req.AlienCom); err != nil {
		return Teams{}, err
	}
	if req.MarineCom != nil && req.AlienCom != nil && *req.MarineCom == *req.AlienCom {
		return Teams{}, fmt.Errorf("%w: %q cannot command both teams", ErrInvalidCommander, *req.MarineCom)
	}

	skill := req.Skill
	if skill == nil {
		skill = func(string) float64 { return 0 }
	}

	p := Problem{}
	pinnedMarines := 0
	if req.MarineCom != nil {
		p.MarineBase = skill(*req.MarineCom)
		pinnedMarines = 1
	}
	if req.AlienCom != nil {
		p.AlienBase = skill(*req.AlienCom)
	}
	for _, name := range pool {
		if isPinned(name, req.MarineCom) || isPinned(name, req.AlienCom) {
			continue
		}
		p.Candidates = append(p.Candidates, Candidate{Name: name, Skill: skill(name)})
	}
	sort.Slice(p.Candidates, func(i, j int) bool { return p.Candidates[i].Name < p.Candidates[j].Name })

	free := len(p.Candidates)
	for _, size := range lo.Uniq([]int{len(pool) / 2, (len(pool) + 1) / 2}) {
		slots := size - pinnedMarines
		if slots < 0 || slots > free {
			continue
		}
		p.MarineSlots = append(p.MarineSlots, slots)
	}

	strategy := req.Strategy
	if strategy == nil {
		strategy = Exhaustive{}
		if free > MaxExhaustive {
			strategy = Greedy{}
		}
	}
	onMarines := strategy.Split(p)

	teams := Teams{MarineSkill: p.MarineBase, AlienSkill: p.AlienBase}
	if req.MarineCom != nil {
		teams.Marines = append(teams.Marines, *req.MarineCom)
	}
	if req.AlienCom != nil {
		teams.Aliens = append(teams.Aliens, *req.AlienCom)
	}
	for i, c := range p.Candidates {
		if onMarines[i] {
			teams.Marines = append(teams.Marines, c.Name)
			teams.MarineSkill += c.Skill
		} else {
			teams.Aliens = append(teams.Aliens, c.Name)
			teams.AlienSkill += c.Skill
		}
	}
	teams.Imbalance = math.Abs(teams.MarineSkill - teams.AlienSkill)
	return teams, nil
}

func checkCommander(pool []string, com *string) error {
	if com == nil {
		return nil
	}
	if !slices.Contains(pool, *com) {
		return fmt.Errorf("%w: %q", ErrInvalidCommander, *com)
	}
	return nil
}

func isPinned(name string, com *string) bool {
	return com != nil && *com == name
}
