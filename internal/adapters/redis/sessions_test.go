package redisad_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "loyalty_quiz/internal/adapters/redis"
	"loyalty_quiz/internal/domain"
)

func newStore(t *testing.T) (*redisad.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	s := domain.NewSession("abc", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	s.Regions = []string{"Europe"}
	s.Selected[domain.DimRegion] = []string{"Європа"}
	s.Scores[domain.DimRegion] = domain.DimensionScore{"Marriott Bonvoy": 21, "Hilton Honors": 18}

	if err := store.Save(ctx, s, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stage != domain.StageQ1 || got.Regions[0] != "Europe" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.Scores[domain.DimRegion]["Hilton Honors"] != 18 {
		t.Fatalf("scores not round-tripped: %+v", got.Scores)
	}
	if !got.CreatedAt.Equal(s.CreatedAt) {
		t.Fatalf("created_at changed: %v", got.CreatedAt)
	}

	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSessionStore_Expires(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, domain.NewSession("ttl", time.Now()), 30*time.Second); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(31 * time.Second)

	if _, err := store.Get(ctx, "ttl"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestSessionStore_IsolatedPerConversation(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	a := domain.NewSession("a", time.Now())
	b := domain.NewSession("b", time.Now())
	b.Stage = domain.StageQ3
	_ = store.Save(ctx, a, time.Minute)
	_ = store.Save(ctx, b, time.Minute)

	got, err := store.Get(ctx, "a")
	if err != nil || got.Stage != domain.StageQ1 {
		t.Fatalf("session a leaked state: %+v err=%v", got, err)
	}
}
