package scoring

import (
	"math"
	"sort"

	"loyalty_quiz/internal/domain"
)

const (
	TopN           = 5
	ExampleBrandsN = 3
)

type Recommendation struct {
	Rank      int                          `json:"rank"`
	Program   string                       `json:"program"`
	Total     float64                      `json:"total"`
	SubScores map[domain.Dimension]float64 `json:"sub_scores"`
	Brands    []string                     `json:"example_brands"`
}

// Top ranks programs by total (ties by name), drops zero totals and keeps at
// most n. Example brands come from the working dataset in dataset order.
func Top(total domain.DimensionScore, scores map[domain.Dimension]domain.DimensionScore, working domain.Dataset, n int) []Recommendation {
	type entry struct {
		program string
		total   float64
	}
	entries := make([]entry, 0, len(total))
	for p, v := range total {
		if v > 0 {
			entries = append(entries, entry{p, v})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].total != entries[j].total {
			return entries[i].total > entries[j].total
		}
		return entries[i].program < entries[j].program
	})
	if len(entries) > n {
		entries = entries[:n]
	}

	out := make([]Recommendation, 0, len(entries))
	for i, e := range entries {
		subs := make(map[domain.Dimension]float64, len(domain.Dimensions))
		for _, d := range domain.Dimensions {
			subs[d] = Round1(scores[d][e.program])
		}
		out = append(out, Recommendation{
			Rank:      i + 1,
			Program:   e.program,
			Total:     Round1(e.total),
			SubScores: subs,
			Brands:    ExampleBrands(working, e.program, ExampleBrandsN),
		})
	}
	return out
}

// ExampleBrands returns up to n distinct brands of program, first seen first.
func ExampleBrands(ds domain.Dataset, program string, n int) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, r := range ds {
		if len(out) == n {
			break
		}
		if r.LoyaltyProgram != program {
			continue
		}
		if _, ok := seen[r.Brand]; ok {
			continue
		}
		seen[r.Brand] = struct{}{}
		out = append(out, r.Brand)
	}
	return out
}

// Round1 rounds to one decimal place for display.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
