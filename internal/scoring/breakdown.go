package scoring

import "loyalty_quiz/internal/domain"

// LabelBreakdown is the developer-mode view of one selected answer.
type LabelBreakdown struct {
	Label  string                `json:"label"`
	Counts domain.Counts         `json:"counts"`
	Points domain.DimensionScore `json:"points"`
}

func Breakdown(labels []string, perLabel []domain.Counts) []LabelBreakdown {
	out := make([]LabelBreakdown, 0, len(labels))
	for i, l := range labels {
		if i >= len(perLabel) {
			break
		}
		out = append(out, LabelBreakdown{Label: l, Counts: perLabel[i], Points: Points(perLabel[i])})
	}
	return out
}
