// internal/adapters/webhook/client.go
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"movie_review/internal/adapters/observability"
	"movie_review/internal/domain"
)

// maxBody bounds how much of a webhook reply is read into memory.
const maxBody = 8 << 20

type Client struct {
	url string
	hc  *http.Client
	rl  *rate.Limiter
	sem *semaphore.Weighted
}

type Options struct {
	Timeout     time.Duration // response-wait ceiling for one call
	RPS         int           // outbound pacing; <=0 means 1
	MaxInFlight int           // concurrent calls; <=0 means 16
}

func New(url string, opts Options) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 600 * time.Second
	}
	if opts.RPS <= 0 {
		opts.RPS = 1
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = 16
	}
	return &Client{
		url: url,
		hc:  &http.Client{Timeout: opts.Timeout},
		rl:  rate.NewLimiter(rate.Limit(opts.RPS), opts.RPS),
		sem: semaphore.NewWeighted(int64(opts.MaxInFlight)),
	}, nil
}

// Generate POSTs payload verbatim and returns the response body as text.
// Transport failures, timeouts and cancellation are reported as
// domain.ErrGatewayUnavailable. The HTTP status is not interpreted: the body
// is handed back whatever it is, and parsing decides.
func (c *Client) Generate(ctx context.Context, payload json.RawMessage) (string, error) {
	// client-side pacing, then a slot
	if err := c.rl.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer c.sem.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "movie-review/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("webhook", "generate", 0, time.Since(start))
		log.Error().Err(err).Dur("after", time.Since(start)).Msg("webhook call failed")
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	observability.ObserveExternal("webhook", "generate", resp.StatusCode, time.Since(start))
	if err != nil {
		// a body cut off by the timeout is still a transport failure
		return "", fmt.Errorf("%w: read body: %v", domain.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("webhook returned non-2xx")
	}
	return string(body), nil
}
