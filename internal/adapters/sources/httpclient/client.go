// Package httpclient is the JSON-over-HTTP plumbing shared by the source
// clients: request pacing, rate-limit backoff and bag decoding.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/okian/talentradar/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second
	// lowWaterMark is the remaining-request count below which calls wait for the reset.
	lowWaterMark = 5
	maxErrorBody = 512
)

// RateLimit names the response headers carrying the remaining quota and
// its reset time in unix seconds.
type RateLimit struct {
	RemainingHeader string
	ResetHeader     string
}

// Client issues GET requests against one API base URL. It is safe for
// concurrent use; pacing and quota state are shared by all callers.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	headers http.Header
	delay   time.Duration
	limit   *RateLimit
	log     logger.Logger
	now     func() time.Time

	mu        sync.Mutex
	remaining int
	reset     time.Time
}

// New returns a client for baseURL.
func New(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:      name,
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: defaultTimeout},
		headers:   make(http.Header),
		log:       logger.Nop(),
		now:       time.Now,
		remaining: -1,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Name returns the source name used in logs.
func (c *Client) Name() string { return c.name }

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// pace applies the fixed per-call delay and waits out an exhausted quota.
func (c *Client) pace(ctx context.Context) error {
	if err := sleep(ctx, c.delay); err != nil {
		return err
	}
	c.mu.Lock()
	var wait time.Duration
	if c.remaining >= 0 && c.remaining < lowWaterMark && !c.reset.IsZero() {
		wait = c.reset.Sub(c.now()) + time.Second
	}
	c.mu.Unlock()
	if wait > 0 {
		c.log.Info(ctx, "rate limit nearly exhausted, waiting",
			logger.String(logger.KeySource, c.name), logger.Any("wait", wait.String()))
		return sleep(ctx, wait)
	}
	return nil
}

func (c *Client) observe(h http.Header) {
	if c.limit == nil {
		return
	}
	rem, err := strconv.Atoi(h.Get(c.limit.RemainingHeader))
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = rem
	if reset, err := strconv.ParseInt(h.Get(c.limit.ResetHeader), 10, 64); err == nil {
		c.reset = time.Unix(reset, 0)
	}
}

// GetJSON performs GET baseURL+path?q and decodes the JSON body into target.
// Non-200 responses return an error wrapping ErrUnexpectedStatus.
func (c *Client) GetJSON(ctx context.Context, path string, q url.Values, target any) error {
	if err := c.pace(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if len(q) > 0 {
		req.URL.RawQuery = q.Encode()
	}

	c.log.Debug(ctx, "make request", logger.String(logger.KeySource, c.name), logger.String("url", req.URL.String()))
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", c.name, err)
	}
	defer resp.Body.Close()
	c.observe(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Source: c.name, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%s decode: %w", c.name, err)
	}
	return nil
}

// Decode maps an untyped JSON bag onto out using json tags.
func Decode(bag any, out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := d.Decode(bag); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// PerPage clamps a requested result count to the usual API page bound.
func PerPage(n int) int {
	return max(1, min(100, n))
}
