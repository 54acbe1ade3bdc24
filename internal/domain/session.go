package domain

import "time"

type Dimension string

const (
	DimRegion   Dimension = "region"
	DimCategory Dimension = "category"
	DimStyle    Dimension = "style"
	DimPurpose  Dimension = "purpose"
)

// Dimensions in question order.
var Dimensions = []Dimension{DimRegion, DimCategory, DimStyle, DimPurpose}

type Stage string

const (
	StageQ1   Stage = "q1"
	StageQ2   Stage = "q2"
	StageQ3   Stage = "q3"
	StageQ4   Stage = "q4"
	StageDone Stage = "done"
)

// Dimension returns the question axis asked at this stage ("" for done).
func (s Stage) Dimension() Dimension {
	switch s {
	case StageQ1:
		return DimRegion
	case StageQ2:
		return DimCategory
	case StageQ3:
		return DimStyle
	case StageQ4:
		return DimPurpose
	}
	return ""
}

// Next returns the stage following s; done is terminal.
func (s Stage) Next() Stage {
	switch s {
	case StageQ1:
		return StageQ2
	case StageQ2:
		return StageQ3
	case StageQ3:
		return StageQ4
	}
	return StageDone
}

// SessionState is owned by exactly one conversation.
type SessionState struct {
	ID        string                       `json:"id"`
	Stage     Stage                        `json:"stage"`
	Developer bool                         `json:"developer,omitempty"`
	Regions   []string                     `json:"regions,omitempty"`
	Countries []string                     `json:"countries,omitempty"`
	Selected  map[Dimension][]string       `json:"selected,omitempty"`
	Scores    map[Dimension]DimensionScore `json:"scores,omitempty"`
	Total     DimensionScore               `json:"total,omitempty"`
	CreatedAt time.Time                    `json:"created_at"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

func NewSession(id string, now time.Time) SessionState {
	return SessionState{
		ID:        id,
		Stage:     StageQ1,
		Selected:  map[Dimension][]string{},
		Scores:    map[Dimension]DimensionScore{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy; transitions work on the copy so a rejected
// answer leaves the original untouched.
func (s SessionState) Clone() SessionState {
	out := s
	out.Regions = append([]string(nil), s.Regions...)
	out.Countries = append([]string(nil), s.Countries...)
	out.Selected = make(map[Dimension][]string, len(s.Selected))
	for d, labels := range s.Selected {
		out.Selected[d] = append([]string(nil), labels...)
	}
	out.Scores = make(map[Dimension]DimensionScore, len(s.Scores))
	for d, sc := range s.Scores {
		out.Scores[d] = sc.clone()
	}
	out.Total = s.Total.clone()
	return out
}

func (d DimensionScore) clone() DimensionScore {
	if d == nil {
		return nil
	}
	out := make(DimensionScore, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
