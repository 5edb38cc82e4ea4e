// Package httpx holds the rate-limited, retrying JSON GET shared by the
// place-search and encyclopedia clients.
package httpx

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"bena_places/internal/adapters/observability"
)

var (
	ErrNotFound     = errors.New("httpx: not found")
	ErrUnauthorized = errors.New("httpx: unauthorized")
	ErrForbidden    = errors.New("httpx: forbidden")
)

const maxAttempts = 4

type Getter struct {
	service   string
	base      string
	userAgent string
	hc        *http.Client
	rl        *rate.Limiter
}

// New returns a Getter for one upstream service. rps <= 0 falls back to 5.
func New(service, base, userAgent string, rps int) *Getter {
	if rps <= 0 {
		rps = 5
	}
	if userAgent == "" {
		userAgent = "bena-places/1.0"
	}
	return &Getter{
		service:   service,
		base:      strings.TrimRight(base, "/"),
		userAgent: userAgent,
		hc:        &http.Client{Timeout: 20 * time.Second},
		rl:        rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// GetJSON performs GET base+path?query and decodes the body into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
// Each attempt waits on the service rate limit.
func (g *Getter) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := g.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		// every attempt, retries included, takes a token
		if err := g.rl.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", g.userAgent)

		start := time.Now()
		resp, err := g.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(g.service, path, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(g.service, path, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%s: decode %s: %w", g.service, path, err)
			}
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%s: remote %d", g.service, resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%s: bad status %d: %s", g.service, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns false early if ctx is done.
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
	return base + time.Duration(0.5*f*float64(base))
}
