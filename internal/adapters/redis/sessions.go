package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loyalty_quiz/internal/adapters/observability"
	"loyalty_quiz/internal/domain"
)

const keyPrefix = "quiz:session:"

// SessionStore keeps one JSON document per conversation, expiring with the TTL.
type SessionStore struct{ c *redis.Client }

func New(addr, pass string, db int) *SessionStore {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewWithClient(c *redis.Client) *SessionStore { return &SessionStore{c: c} }

func (r *SessionStore) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *SessionStore) Close() error { return r.c.Close() }

func (r *SessionStore) Get(ctx context.Context, id string) (domain.SessionState, error) {
	v, err := r.c.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveSession("redis", "miss")
		return domain.SessionState{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SessionState{}, err
	}
	observability.ObserveSession("redis", "hit")
	var s domain.SessionState
	if err := json.Unmarshal(v, &s); err != nil {
		return domain.SessionState{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return s, nil
}

func (r *SessionStore) Save(ctx context.Context, s domain.SessionState, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	observability.ObserveSession("redis", "save")
	return r.c.Set(ctx, keyPrefix+s.ID, b, ttl).Err()
}

func (r *SessionStore) Delete(ctx context.Context, id string) error {
	observability.ObserveSession("redis", "del")
	return r.c.Del(ctx, keyPrefix+id).Err()
}
