// Package scoring turns quiz answers into loyalty program rankings.
// Every function here is pure: same input, same output, no shared state.
package scoring

import (
	"sort"

	"loyalty_quiz/internal/domain"
)

// rankPoints[i] is awarded to the program ranked i+1; rank 8 and below score 0.
var rankPoints = [...]float64{21, 18, 15, 12, 9, 6, 3}

// PointsForRank returns the points awarded to a 1-based rank.
func PointsForRank(rank int) float64 {
	if rank < 1 || rank > len(rankPoints) {
		return 0
	}
	return rankPoints[rank-1]
}

// Filter keeps records whose region is in regions and whose country is in
// countries. An empty set does not filter its axis. Dataset order is kept.
func Filter(ds domain.Dataset, regions, countries []string) domain.Dataset {
	rs, cs := toSet(regions), toSet(countries)
	out := make(domain.Dataset, 0, len(ds))
	for _, r := range ds {
		if len(rs) > 0 {
			if _, ok := rs[r.Region]; !ok {
				continue
			}
		}
		if len(cs) > 0 {
			if _, ok := cs[r.Country]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// CountAll counts records per loyalty program.
func CountAll(ds domain.Dataset) domain.Counts {
	out := domain.Counts{}
	for _, r := range ds {
		out[r.LoyaltyProgram]++
	}
	return out
}

// CountBrands counts, per loyalty program, the records whose brand is in brands.
func CountBrands(ds domain.Dataset, brands []string) domain.Counts {
	set := toSet(brands)
	out := domain.Counts{}
	for _, r := range ds {
		if _, ok := set[r.Brand]; ok {
			out[r.LoyaltyProgram]++
		}
	}
	return out
}

type ProgramCount struct {
	Program string `json:"program"`
	Count   int    `json:"count"`
}

// Rank orders programs with a positive count by count descending, then by name.
func Rank(c domain.Counts) []ProgramCount {
	out := make([]ProgramCount, 0, len(c))
	for p, n := range c {
		if n > 0 {
			out = append(out, ProgramCount{Program: p, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Program < out[j].Program
	})
	return out
}

// Points converts counts into rank points. Programs with no matches get no entry.
func Points(c domain.Counts) domain.DimensionScore {
	out := domain.DimensionScore{}
	for i, pc := range Rank(c) {
		out[pc.Program] = PointsForRank(i + 1)
	}
	return out
}

// Aggregate sums the points of each selected label and divides by the number
// of labels, so two answers share the scale of one.
func Aggregate(perLabel []domain.Counts) domain.DimensionScore {
	out := domain.DimensionScore{}
	if len(perLabel) == 0 {
		return out
	}
	for _, c := range perLabel {
		for p, pts := range Points(c) {
			out[p] += pts
		}
	}
	k := float64(len(perLabel))
	for p := range out {
		out[p] /= k
	}
	return out
}

// Combine sums dimension scores per program; a missing entry counts as zero.
func Combine(scores map[domain.Dimension]domain.DimensionScore) domain.DimensionScore {
	out := domain.DimensionScore{}
	for _, d := range domain.Dimensions {
		for p, v := range scores[d] {
			out[p] += v
		}
	}
	return out
}

// Merge adds per-label counts together for the intermediate hit list.
func Merge(perLabel []domain.Counts) domain.Counts {
	out := domain.Counts{}
	for _, c := range perLabel {
		for p, n := range c {
			out[p] += n
		}
	}
	return out
}

// TopHits returns at most n programs by hit count.
func TopHits(c domain.Counts, n int) []ProgramCount {
	r := Rank(c)
	if len(r) > n {
		r = r[:n]
	}
	return r
}

func toSet(xs []string) map[string]struct{} {
	out := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		out[x] = struct{}{}
	}
	return out
}
