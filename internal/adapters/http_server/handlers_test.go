package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	server "loyalty_quiz/internal/adapters/http_server"
	redisad "loyalty_quiz/internal/adapters/redis"
	"loyalty_quiz/internal/app"
	"loyalty_quiz/internal/catalog"
	"loyalty_quiz/internal/domain"
	"loyalty_quiz/internal/quiz"
)

func newTestServer(t *testing.T, opts server.Options) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	store := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = store.Close() })

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	ds := domain.Dataset{
		{Brand: "Marriott Hotels", LoyaltyProgram: "Marriott Bonvoy", Region: "Europe", Country: "Germany"},
		{Brand: "Hilton", LoyaltyProgram: "Hilton Honors", Region: "Europe", Country: "Austria"},
	}
	svc := app.NewConversationService(quiz.NewMachine(cat, ds), store, time.Minute, true)

	srv := server.New(opts)
	srv.MountHandlers(&server.Handlers{C: svc})
	return srv.Mux()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestStartAnswerGetDelete(t *testing.T) {
	h := newTestServer(t, server.Options{})

	rr := do(t, h, http.MethodPost, "/v1/conversations", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("start status %d: %s", rr.Code, rr.Body.String())
	}
	start := decode[app.Reply](t, rr)
	if rr.Header().Get("Location") != "/v1/conversations/"+start.ConversationID {
		t.Fatalf("unexpected Location %q", rr.Header().Get("Location"))
	}
	if start.Question == nil || start.Question.Dimension != domain.DimRegion {
		t.Fatalf("expected region question, got %+v", start.Question)
	}
	base := "/v1/conversations/" + start.ConversationID

	rr = do(t, h, http.MethodPost, base+"/answers", `{"text":"1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("answer status %d: %s", rr.Code, rr.Body.String())
	}
	reply := decode[app.Reply](t, rr)
	if reply.Stage != domain.StageQ2 || reply.Step == nil || len(reply.Step.Hits) != 2 {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	rr = do(t, h, http.MethodGet, base, "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"regions":["Europe"]`) {
		t.Fatalf("get: %d %s", rr.Code, rr.Body.String())
	}

	if rr = do(t, h, http.MethodDelete, base, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status %d", rr.Code)
	}
	if rr = do(t, h, http.MethodGet, base, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestAnswer_RepromptKeepsStage(t *testing.T) {
	h := newTestServer(t, server.Options{})
	start := decode[app.Reply](t, do(t, h, http.MethodPost, "/v1/conversations", `{"developer":true}`))

	rr := do(t, h, http.MethodPost, "/v1/conversations/"+start.ConversationID+"/answers", `{"text":"жоден"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	reply := decode[app.Reply](t, rr)
	if !reply.Reprompt || reply.Stage != domain.StageQ1 || reply.Question == nil {
		t.Fatalf("expected re-prompt of question 1, got %+v", reply)
	}
}

func TestErrors_ProblemJSON(t *testing.T) {
	h := newTestServer(t, server.Options{})

	rr := do(t, h, http.MethodPost, "/v1/conversations/nope/answers", `{"text":"1"}`)
	if rr.Code != http.StatusNotFound || rr.Header().Get("Content-Type") != "application/problem+json" {
		t.Fatalf("expected 404 problem, got %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}

	rr = do(t, h, http.MethodPost, "/v1/conversations", `{"developer":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rr.Code)
	}
	rr = do(t, h, http.MethodPost, "/v1/conversations", `{"colour":"red"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rr.Code)
	}
}

func TestQuestionsAndSelfTest(t *testing.T) {
	h := newTestServer(t, server.Options{})

	rr := do(t, h, http.MethodGet, "/v1/questions", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Бізнес-подорожі") {
		t.Fatalf("questions: %d %s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "Marriott Hotels") {
		t.Fatalf("brand tables must not be exposed")
	}

	rr = do(t, h, http.MethodGet, "/v1/selftest", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("selftest: %d %s", rr.Code, rr.Body.String())
	}
	if rep := decode[app.SelfTestReport](t, rr); !rep.Passed {
		t.Fatalf("selftest failed: %+v", rep)
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, server.Options{RateLimitRPS: 0.001, RateLimitBurst: 1})

	if rr := do(t, h, http.MethodGet, "/healthz", ""); rr.Code != http.StatusOK {
		t.Fatalf("first request: %d", rr.Code)
	}
	rr := do(t, h, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") == "" {
		t.Fatalf("expected 429 with Retry-After, got %d", rr.Code)
	}
}
