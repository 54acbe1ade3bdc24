package datasource_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"loyalty_quiz/internal/adapters/datasource"
)

const sampleCSV = "Hotel Brand,Loyalty Program,Region,Country\nCourtyard,Marriott Bonvoy,Europe,Germany\n"

func TestHTTPSource_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			if r.Header.Get("Authorization") != "Bearer test-key" {
				w.WriteHeader(401)
				return
			}
			_, _ = io.WriteString(w, sampleCSV)
		}
	}))
	defer ts.Close()

	src := datasource.NewHTTPSource(ts.URL, "test-key", 100) // high RPS for tests
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ds, err := datasource.Load(ctx, src)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(ds) != 1 || ds[0].LoyaltyProgram != "Marriott Bonvoy" {
		t.Fatalf("unexpected dataset: %+v", ds)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestHTTPSource_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	src := datasource.NewHTTPSource(ts.URL, "", 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := src.Open(ctx)
	if !errors.Is(err, datasource.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpen_PicksSourceByScheme(t *testing.T) {
	if _, ok := datasource.Open("https://example.com/hotels.csv", "", 1).(*datasource.HTTPSource); !ok {
		t.Fatalf("expected HTTP source for https location")
	}
	if _, ok := datasource.Open("/data/hotels.csv", "", 1).(*datasource.FileSource); !ok {
		t.Fatalf("expected file source for a path")
	}
}
