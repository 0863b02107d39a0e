// Package netcheck performs the existence check of URL fields: a single HTTP
// GET bounded by the caller's context and a timeout. Nothing is retried.
package netcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	modelkit "github.com/reoring/modelkit"
)

// DefaultTimeout bounds a check when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// ErrNotFound is returned when the server answers with a status >= 400.
var ErrNotFound = errors.New("netcheck: url does not exist")

// Options configures a Checker.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
}

// Checker issues the GET requests.
type Checker struct {
	timeout   time.Duration
	userAgent string
	client    *http.Client
}

// New builds a Checker. Zero options select DefaultTimeout and
// http.DefaultClient.
func New(opts Options) *Checker {
	c := &Checker{timeout: opts.Timeout, userAgent: opts.UserAgent, client: opts.Client}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	return c
}

// Check fetches url and reports whether it answered below 400.
func (c *Checker) Check(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log := modelkit.Logger()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("netcheck: build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("url check failed")
		return fmt.Errorf("netcheck: get %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("url checked")
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %s answered %d", ErrNotFound, url, resp.StatusCode)
	}
	return nil
}
