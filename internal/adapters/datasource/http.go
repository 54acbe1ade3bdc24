// internal/adapters/datasource/http.go
package datasource

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"loyalty_quiz/internal/adapters/observability"
)

var (
	ErrNotFound     = errors.New("datasource: not found")
	ErrUnauthorized = errors.New("datasource: unauthorized")
	ErrForbidden    = errors.New("datasource: forbidden")
)

const maxDatasetBytes = 64 << 20

// HTTPSource downloads the dataset CSV from a URL.
type HTTPSource struct {
	url string
	hc  *http.Client
	key string
	rl  *rate.Limiter
}

func NewHTTPSource(url, key string, rps int) *HTTPSource {
	if rps <= 0 {
		rps = 5
	}
	return &HTTPSource{
		url: url,
		hc:  &http.Client{Timeout: 30 * time.Second},
		key: key,
		rl:  rate.NewLimiter(rate.Limit(rps), rps),
	}
}

func (c *HTTPSource) String() string { return c.url }

// Open fetches the whole document and returns it as an in-memory reader.
func (c *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	b, err := c.get(ctx, c.url)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// get performs a GET with client-side rate limiting and retries.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *HTTPSource) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if c.key != "" {
			req.Header.Set("Authorization", "Bearer "+c.key)
		}
		req.Header.Set("Accept", "text/csv")
		req.Header.Set("User-Agent", "loyalty-quiz/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("dataset", "csv", 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}
		observability.ObserveExternal("dataset", "csv", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes))
			resp.Body.Close()
			return b, err

		case http.StatusNotFound:
			resp.Body.Close()
			return nil, ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return nil, ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return nil, ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return nil, lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
