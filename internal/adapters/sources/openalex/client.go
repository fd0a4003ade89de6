package openalex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/talentradar/internal/adapters/sources/httpclient"
	"github.com/okian/talentradar/internal/domain/model"
	"github.com/okian/talentradar/pkg/logger"
	"github.com/okian/talentradar/pkg/metrics"
)

const (
	// DefaultBaseURL is the public OpenAlex API.
	DefaultBaseURL = "https://api.openalex.org"
	// DefaultDelay spaces consecutive calls per the polite-pool policy.
	DefaultDelay = 100 * time.Millisecond
)

// Client finds researchers by keyword.
type Client struct {
	api *httpclient.Client
	log logger.Logger
}

// New builds a client. email identifies the caller in the User-Agent.
func New(baseURL, email string, log logger.Logger, opts ...httpclient.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	log = logger.OrGlobal(log).Named("openalex")
	base := []httpclient.Option{
		httpclient.WithHeader("User-Agent", fmt.Sprintf("TalentRadar/0.1 (%s)", email)),
		httpclient.WithDelay(DefaultDelay),
		httpclient.WithLogger(log),
	}
	return &Client{api: httpclient.New("openalex", baseURL, append(base, opts...)...), log: log}
}

// Source implements the collector contract.
func (c *Client) Source() model.Source { return model.SourceOpenAlex }

// Collect returns up to limit authors matching keyword.
func (c *Client) Collect(ctx context.Context, keyword string, limit int) ([]model.Candidate, error) {
	var found listResponse
	q := url.Values{"search": {keyword}, "per_page": {strconv.Itoa(httpclient.PerPage(limit))}}
	if err := c.api.GetJSON(ctx, "/authors", q, &found); err != nil {
		metrics.RecordSourceError(string(model.SourceOpenAlex))
		return nil, fmt.Errorf("search authors %q: %w", keyword, err)
	}
	results := found.Results
	if len(results) > limit {
		results = results[:limit]
	}

	out := make([]model.Candidate, 0, len(results))
	for _, r := range results {
		raw, ok := r.(map[string]any)
		if !ok {
			continue
		}
		var a Author
		if err := httpclient.Decode(raw, &a); err != nil {
			c.log.Warn(ctx, "skip author", logger.String(logger.KeyKeyword, keyword), logger.Error(err))
			continue
		}
		works, err := c.works(ctx, a.ID)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			c.log.Debug(ctx, "works unavailable", logger.String("author", a.ID), logger.Error(err))
		}
		cand := Extract(a, raw, works)
		cand.Keyword = keyword
		out = append(out, cand)
	}
	c.log.Info(ctx, "collected", logger.String(logger.KeyKeyword, keyword), logger.Int("count", len(out)))
	return out, nil
}

func (c *Client) works(ctx context.Context, authorID string) ([]Work, error) {
	if authorID == "" {
		return nil, nil
	}
	var found listResponse
	q := url.Values{
		"filter":   {"author.id:" + shortID(authorID)},
		"per_page": {strconv.Itoa(maxWorks)},
		"sort":     {"cited_by_count:desc"},
	}
	if err := c.api.GetJSON(ctx, "/works", q, &found); err != nil {
		return nil, err
	}
	var works []Work
	if err := httpclient.Decode(found.Results, &works); err != nil {
		return nil, err
	}
	return works, nil
}
