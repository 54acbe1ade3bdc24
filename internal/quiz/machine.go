package quiz

import (
	"fmt"
	"time"

	"loyalty_quiz/internal/catalog"
	"loyalty_quiz/internal/domain"
	"loyalty_quiz/internal/scoring"
)

// Step is what one accepted answer produced.
type Step struct {
	Answered domain.Dimension         `json:"answered"`
	Labels   []string                 `json:"labels"`
	Hits     []scoring.ProgramCount   `json:"hits"`
	Result   []scoring.Recommendation `json:"result,omitempty"`

	// developer mode only
	Counts    domain.Counts            `json:"counts,omitempty"`
	Breakdown []scoring.LabelBreakdown `json:"breakdown,omitempty"`
	Scores    domain.DimensionScore    `json:"scores,omitempty"`
	Total     domain.DimensionScore    `json:"total,omitempty"`
}

type transition func(m *Machine, s *domain.SessionState, opts []catalog.Option) Step

var transitions = map[domain.Stage]transition{
	domain.StageQ1: answerRegion,
	domain.StageQ2: answerBrands,
	domain.StageQ3: answerBrands,
	domain.StageQ4: answerBrands,
}

// Machine is stateless apart from the read-only catalog and dataset, so one
// instance serves every conversation.
type Machine struct {
	catalog *catalog.Catalog
	dataset domain.Dataset
	now     func() time.Time
}

func NewMachine(c *catalog.Catalog, ds domain.Dataset) *Machine {
	return &Machine{catalog: c, dataset: ds, now: time.Now}
}

func (m *Machine) Catalog() *catalog.Catalog { return m.catalog }

// Question returns the question asked at stage.
func (m *Machine) Question(stage domain.Stage) (catalog.Question, bool) {
	if stage == domain.StageDone {
		return catalog.Question{}, false
	}
	return m.catalog.Question(stage.Dimension())
}

// Working is the dataset narrowed by the session's region and country choices.
func (m *Machine) Working(s domain.SessionState) domain.Dataset {
	return scoring.Filter(m.dataset, s.Regions, s.Countries)
}

// Advance applies one user answer. The returned state is a copy; on error
// it is the input state unchanged.
func (m *Machine) Advance(s domain.SessionState, text string) (domain.SessionState, Step, error) {
	if s.Stage == domain.StageDone {
		return s, Step{}, domain.ErrConversationDone
	}
	fn, ok := transitions[s.Stage]
	if !ok {
		return s, Step{}, fmt.Errorf("quiz: unknown stage %q", s.Stage)
	}
	q, ok := m.Question(s.Stage)
	if !ok {
		return s, Step{}, fmt.Errorf("quiz: no question for stage %q", s.Stage)
	}
	picks, err := ParseSelection(text, len(q.Options))
	if err != nil {
		return s, Step{}, err
	}

	opts := make([]catalog.Option, 0, len(picks))
	for _, n := range picks {
		opts = append(opts, q.Options[n-1])
	}

	next := s.Clone()
	step := fn(m, &next, opts)
	step.Answered = q.Dimension
	step.Labels = next.Selected[q.Dimension]

	next.Stage = s.Stage.Next()
	if next.Stage == domain.StageDone {
		next.Total = scoring.Combine(next.Scores)
		step.Result = scoring.Top(next.Total, next.Scores, m.Working(next), scoring.TopN)
		if next.Developer {
			step.Total = next.Total
		}
	}
	next.UpdatedAt = m.now()
	return next, step, nil
}

func answerRegion(m *Machine, s *domain.SessionState, opts []catalog.Option) Step {
	labels := make([]string, 0, len(opts))
	perLabel := make([]domain.Counts, 0, len(opts))
	var regions []string
	for _, o := range opts {
		labels = append(labels, o.Label)
		perLabel = append(perLabel, scoring.CountAll(scoring.Filter(m.dataset, o.Regions, s.Countries)))
		regions = appendUnique(regions, o.Regions...)
	}
	s.Regions = regions
	return score(s, domain.DimRegion, labels, perLabel)
}

func answerBrands(m *Machine, s *domain.SessionState, opts []catalog.Option) Step {
	dim := s.Stage.Dimension()
	working := m.Working(*s)
	labels := make([]string, 0, len(opts))
	perLabel := make([]domain.Counts, 0, len(opts))
	for _, o := range opts {
		labels = append(labels, o.Label)
		perLabel = append(perLabel, scoring.CountBrands(working, o.Brands))
	}
	return score(s, dim, labels, perLabel)
}

func score(s *domain.SessionState, dim domain.Dimension, labels []string, perLabel []domain.Counts) Step {
	s.Selected[dim] = labels
	s.Scores[dim] = scoring.Aggregate(perLabel)

	merged := scoring.Merge(perLabel)
	step := Step{Hits: scoring.TopHits(merged, scoring.TopN)}
	if s.Developer {
		step.Counts = merged
		step.Breakdown = scoring.Breakdown(labels, perLabel)
		step.Scores = s.Scores[dim]
	}
	return step
}

func appendUnique(dst []string, xs ...string) []string {
	for _, x := range xs {
		dup := false
		for _, d := range dst {
			if d == x {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, x)
		}
	}
	return dst
}
