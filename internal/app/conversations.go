package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"loyalty_quiz/internal/adapters/observability"
	"loyalty_quiz/internal/domain"
	"loyalty_quiz/internal/quiz"
)

const (
	repromptMessage = "Будь ласка, оберіть один або два варіанти з 1 до 4, наприклад: 1 або 2, 4."
	noResultMessage = "На жаль, за вашими відповідями не знайдено жодної програми лояльності."
)

type StartOptions struct {
	Developer bool     `json:"developer"`
	Countries []string `json:"countries"`
}

type QuestionView struct {
	Number    int              `json:"number"`
	Dimension domain.Dimension `json:"dimension"`
	Prompt    string           `json:"prompt"`
	Options   []string         `json:"options"`
}

type Reply struct {
	ConversationID string        `json:"conversation_id"`
	Stage          domain.Stage  `json:"stage"`
	Reprompt       bool          `json:"reprompt,omitempty"`
	Message        string        `json:"message,omitempty"`
	Question       *QuestionView `json:"question,omitempty"`
	Step           *quiz.Step    `json:"step,omitempty"`
}

// ConversationService owns session lifecycles; every answer is a
// load-advance-save round trip on one conversation's state.
type ConversationService struct {
	machine  *quiz.Machine
	store    domain.SessionStore
	ttl      time.Duration
	allowDev bool
	newID    func() string
	now      func() time.Time
}

func NewConversationService(m *quiz.Machine, store domain.SessionStore, ttl time.Duration, allowDev bool) *ConversationService {
	return &ConversationService{
		machine:  m,
		store:    store,
		ttl:      ttl,
		allowDev: allowDev,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (s *ConversationService) Machine() *quiz.Machine { return s.machine }

func (s *ConversationService) Start(ctx context.Context, opts StartOptions) (Reply, error) {
	st := domain.NewSession(s.newID(), s.now())
	st.Developer = opts.Developer && s.allowDev
	for _, c := range opts.Countries {
		if c != "" {
			st.Countries = append(st.Countries, c)
		}
	}
	if err := s.store.Save(ctx, st, s.ttl); err != nil {
		return Reply{}, err
	}
	log.Info().Str("conversation", st.ID).Bool("developer", st.Developer).Msg("conversation started")
	return Reply{ConversationID: st.ID, Stage: st.Stage, Question: s.Question(st.Stage)}, nil
}

// Answer applies one user message. Unrecognised input yields a re-prompt of
// the same question and leaves the stored state as it was.
func (s *ConversationService) Answer(ctx context.Context, id, text string) (Reply, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return Reply{}, err
	}
	dim := string(st.Stage.Dimension())

	next, step, err := s.machine.Advance(st, text)
	if errors.Is(err, domain.ErrNoSelection) {
		observability.ObserveAnswer(dim, "reprompt")
		return Reply{
			ConversationID: id,
			Stage:          st.Stage,
			Reprompt:       true,
			Message:        repromptMessage,
			Question:       s.Question(st.Stage),
		}, nil
	}
	if err != nil {
		return Reply{}, err
	}
	observability.ObserveAnswer(dim, "accepted")

	if next.Stage == domain.StageDone {
		if err := s.store.Delete(ctx, id); err != nil {
			return Reply{}, err
		}
		top := ""
		if len(step.Result) > 0 {
			top = step.Result[0].Program
		}
		observability.ObserveCompletion(top)
		log.Info().Str("conversation", id).Str("top", top).Int("results", len(step.Result)).Msg("conversation completed")
	} else if err := s.store.Save(ctx, next, s.ttl); err != nil {
		return Reply{}, err
	}

	reply := Reply{
		ConversationID: id,
		Stage:          next.Stage,
		Question:       s.Question(next.Stage),
		Step:           &step,
	}
	if next.Stage == domain.StageDone && len(step.Result) == 0 {
		reply.Message = noResultMessage
	}
	return reply, nil
}

func (s *ConversationService) Get(ctx context.Context, id string) (domain.SessionState, error) {
	return s.store.Get(ctx, id)
}

// End discards the conversation; unknown ids report ErrNotFound.
func (s *ConversationService) End(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Question renders the question asked at stage; nil once the quiz is done.
func (s *ConversationService) Question(stage domain.Stage) *QuestionView {
	q, ok := s.machine.Question(stage)
	if !ok {
		return nil
	}
	labels := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		labels = append(labels, o.Label)
	}
	num := 0
	for i, d := range domain.Dimensions {
		if d == q.Dimension {
			num = i + 1
		}
	}
	return &QuestionView{Number: num, Dimension: q.Dimension, Prompt: q.Prompt, Options: labels}
}
