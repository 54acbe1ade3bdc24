// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"loyalty_quiz/internal/app"
	"loyalty_quiz/internal/domain"
)

const maxBodyBytes = 16 << 10

type Handlers struct{ C *app.ConversationService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type answerRequest struct {
	Text string `json:"text"`
}

type conversationView struct {
	ID        string                        `json:"conversation_id"`
	Stage     domain.Stage                  `json:"stage"`
	Developer bool                          `json:"developer"`
	Regions   []string                      `json:"regions"`
	Countries []string                      `json:"countries"`
	Selected  map[domain.Dimension][]string `json:"selected"`
	Question  *app.QuestionView             `json:"question,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/questions", h.listQuestions)
	s.mux.Get("/v1/selftest", h.selfTest)
	s.mux.Route("/v1/conversations", func(r chi.Router) {
		r.Post("/", h.startConversation)
		r.Get("/{id}", h.getConversation)
		r.Delete("/{id}", h.endConversation)
		r.Post("/{id}/answers", h.answer)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "conversation not found or expired")
	case errors.Is(err, domain.ErrConversationDone):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// decodeBody accepts an empty body as the zero value.
func decodeBody(r *http.Request, w http.ResponseWriter, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handlers) listQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.C.Machine().Catalog())
}

func (h *Handlers) selfTest(w http.ResponseWriter, r *http.Request) {
	rep := app.SelfTest()
	status := http.StatusOK
	if !rep.Passed {
		log.Error().Msg("self-test failed")
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, rep)
}

func (h *Handlers) startConversation(w http.ResponseWriter, r *http.Request) {
	var opts app.StartOptions
	if err := decodeBody(r, w, &opts); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	reply, err := h.C.Start(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/conversations/"+reply.ConversationID)
	writeJSON(w, http.StatusCreated, reply)
}

func (h *Handlers) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeBody(r, w, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	reply, err := h.C.Answer(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *Handlers) getConversation(w http.ResponseWriter, r *http.Request) {
	st, err := h.C.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conversationView{
		ID:        st.ID,
		Stage:     st.Stage,
		Developer: st.Developer,
		Regions:   st.Regions,
		Countries: st.Countries,
		Selected:  st.Selected,
		Question:  h.C.Question(st.Stage),
	})
}

func (h *Handlers) endConversation(w http.ResponseWriter, r *http.Request) {
	if err := h.C.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
