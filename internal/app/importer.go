package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"loyalty_quiz/internal/domain"
)

// ImportService loads a parsed dataset into the repository in numbered
// batches, at most workers batches in flight.
type ImportService struct {
	repo    domain.DatasetRepository
	workers int
	batch   int
}

func NewImportService(r domain.DatasetRepository, workers, batch int) *ImportService {
	if workers <= 0 {
		workers = 1
	}
	if batch <= 0 {
		batch = 500
	}
	return &ImportService{repo: r, workers: workers, batch: batch}
}

func (s *ImportService) Import(ctx context.Context, ds domain.Dataset) error {
	sem := semaphore.NewWeighted(int64(s.workers))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(ds); start += s.batch {
		end := start + s.batch
		if end > len(ds) {
			end = len(ds)
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(first int, recs []domain.HotelRecord) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.repo.UpsertRecords(ctx, first, recs); err != nil {
				log.Warn().Int("first_row", first).Int("rows", len(recs)).Err(err).Msg("batch upsert failed")
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			log.Debug().Int("first_row", first).Int("rows", len(recs)).Msg("batch upserted")
		}(start, ds[start:end])
	}
	wg.Wait()

	if firstErr != nil {
		return fmt.Errorf("import: %w", firstErr)
	}
	// rows left over from a longer previous import
	if err := s.repo.TrimRecords(ctx, len(ds)); err != nil {
		return fmt.Errorf("import: trim: %w", err)
	}
	return nil
}
