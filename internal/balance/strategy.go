package balance

import (
	"math"
	"math/bits"
	"slices"
	"sort"
)

// Exhaustive evaluates every size-valid partition. Subset sums are looked up
// from two half tables, so each mask costs two loads and an add.
type Exhaustive struct{}

func (Exhaustive) Split(p Problem) []bool {
	n := len(p.Candidates)
	if n > MaxExhaustive {
		return Greedy{}.Split(p)
	}

	half := n / 2
	low := subsetSums(p.Candidates[:half])
	high := subsetSums(p.Candidates[half:])
	total := low[len(low)-1] + high[len(high)-1]
	lowMask := uint64(1)<<half - 1

	best := uint64(0)
	bestGap := math.Inf(1)
	found := false
	for mask := uint64(0); mask < uint64(1)<<n; mask++ {
		if !slices.Contains(p.MarineSlots, bits.OnesCount64(mask)) {
			continue
		}
		marines := low[mask&lowMask] + high[mask>>half]
		gap := math.Abs(p.MarineBase + marines - (p.AlienBase + total - marines))
		if !found || gap < bestGap || (gap == bestGap && lessRoster(mask, best)) {
			best, bestGap, found = mask, gap, true
		}
	}

	out := make([]bool, n)
	for i := range out {
		out[i] = best&(1<<i) != 0
	}
	return out
}

// subsetSums returns the skill sum of every subset of cs, indexed by bitmask.
// The last entry is the sum of all of cs.
func subsetSums(cs []Candidate) []float64 {
	sums := make([]float64, 1<<len(cs))
	for mask := 1; mask < len(sums); mask++ {
		i := bits.TrailingZeros(uint(mask))
		sums[mask] = sums[mask&(mask-1)] + cs[i].Skill
	}
	return sums
}

// lessRoster compares the name lists selected by two masks over name-sorted
// candidates, lexicographically.
func lessRoster(a, b uint64) bool {
	diff := a ^ b
	if diff == 0 {
		return false
	}
	i := bits.TrailingZeros64(diff)
	above := ^uint64(0) << (i + 1)
	if a&(1<<i) != 0 {
		// a lists candidate i where b lists a later one, or b has already ended.
		return b&above != 0
	}
	return a&above == 0
}

// Greedy places players from strongest to weakest on whichever side is
// currently weaker and still has room. It is used for pools too large to
// enumerate.
type Greedy struct{}

func (Greedy) Split(p Problem) []bool {
	n := len(p.Candidates)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return p.Candidates[order[i]].Skill > p.Candidates[order[j]].Skill
	})

	marineCap := slices.Max(p.MarineSlots)
	alienCap := n - slices.Min(p.MarineSlots)
	marineSum, alienSum := p.MarineBase, p.AlienBase
	marines, aliens := 0, 0

	out := make([]bool, n)
	for _, idx := range order {
		c := p.Candidates[idx]
		toMarines := marineSum <= alienSum
		if toMarines && marines == marineCap {
			toMarines = false
		}
		if !toMarines && aliens == alienCap {
			toMarines = true
		}
		if toMarines {
			out[idx] = true
			marines++
			marineSum += c.Skill
		} else {
			aliens++
			alienSum += c.Skill
		}
	}
	return out
}
