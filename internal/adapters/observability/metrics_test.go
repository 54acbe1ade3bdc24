package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loyalty_quiz/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are exported
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveAnswer("region", "accepted")
	observability.ObserveCompletion("Marriott Bonvoy")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"loyalty_quiz_http_requests_total",
		"loyalty_quiz_answers_total",
		"loyalty_quiz_completions_total",
		`loyalty_quiz_top_program_total{program="Marriott Bonvoy"}`,
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}
