package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrNoSelection      = errors.New("no valid option selected")
	ErrConversationDone = errors.New("conversation already completed")
)

type DatasetRepository interface {
	// Write paths
	UpsertRecords(ctx context.Context, firstRow int, recs []HotelRecord) error
	TrimRecords(ctx context.Context, keep int) error

	// Read paths
	ListRecords(ctx context.Context) (Dataset, error)
	CountRecords(ctx context.Context) (int, error)
}

type SessionStore interface {
	Get(ctx context.Context, id string) (SessionState, error) // ErrNotFound when absent or expired
	Save(ctx context.Context, s SessionState, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// DatasetSource yields the raw CSV bytes of the dataset (a file or a URL).
type DatasetSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}
