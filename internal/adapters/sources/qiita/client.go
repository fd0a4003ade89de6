package qiita

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/okian/talentradar/internal/adapters/sources/httpclient"
	"github.com/okian/talentradar/internal/domain/model"
	"github.com/okian/talentradar/pkg/logger"
	"github.com/okian/talentradar/pkg/metrics"
)

// DefaultBaseURL is the public Qiita v2 API.
const DefaultBaseURL = "https://qiita.com/api/v2"

// Client finds article authors for a keyword.
type Client struct {
	api *httpclient.Client
	log logger.Logger
}

// New builds a client. An empty token uses anonymous access.
func New(baseURL, token string, log logger.Logger, opts ...httpclient.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	log = logger.OrGlobal(log).Named("qiita")
	auth := ""
	if token != "" {
		auth = "Bearer " + token
	}
	base := []httpclient.Option{
		httpclient.WithHeader("Content-Type", "application/json"),
		httpclient.WithHeader("Authorization", auth),
		httpclient.WithRateLimit(httpclient.RateLimit{RemainingHeader: "Rate-Remaining", ResetHeader: "Rate-Reset"}),
		httpclient.WithLogger(log),
	}
	return &Client{api: httpclient.New("qiita", baseURL, append(base, opts...)...), log: log}
}

// Source implements the collector contract.
func (c *Client) Source() model.Source { return model.SourceQiita }

// Collect searches articles for keyword and returns up to limit distinct authors.
func (c *Client) Collect(ctx context.Context, keyword string, limit int) ([]model.Candidate, error) {
	var rawItems []any
	q := url.Values{"query": {keyword}, "per_page": {strconv.Itoa(httpclient.PerPage(limit))}}
	if err := c.api.GetJSON(ctx, "/items", q, &rawItems); err != nil {
		metrics.RecordSourceError(string(model.SourceQiita))
		return nil, fmt.Errorf("search items %q: %w", keyword, err)
	}
	var items []Item
	if err := httpclient.Decode(rawItems, &items); err != nil {
		return nil, err
	}

	authors := authorIDs(items, limit)
	out := make([]model.Candidate, 0, len(authors))
	for _, id := range authors {
		cand, err := c.user(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			metrics.RecordSourceError(string(model.SourceQiita))
			c.log.Warn(ctx, "skip user", logger.String("qiita_id", id),
				logger.String(logger.KeyKeyword, keyword), logger.Error(err))
			continue
		}
		cand.Keyword = keyword
		out = append(out, cand)
	}
	c.log.Info(ctx, "collected", logger.String(logger.KeyKeyword, keyword), logger.Int("count", len(out)))
	return out, nil
}

// authorIDs returns distinct author ids in first-seen order.
func authorIDs(items []Item, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	var ids []string
	for _, it := range items {
		if len(ids) == limit {
			break
		}
		id := it.User.ID
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (c *Client) user(ctx context.Context, id string) (model.Candidate, error) {
	path := "/users/" + url.PathEscape(id)
	var raw map[string]any
	if err := c.api.GetJSON(ctx, path, nil, &raw); err != nil {
		return model.Candidate{}, fmt.Errorf("user details: %w", err)
	}
	var u User
	if err := httpclient.Decode(raw, &u); err != nil {
		return model.Candidate{}, err
	}

	var rawItems []any
	q := url.Values{"per_page": {strconv.Itoa(maxItems)}}
	if err := c.api.GetJSON(ctx, path+"/items", q, &rawItems); err != nil {
		c.log.Debug(ctx, "articles unavailable", logger.String("qiita_id", id), logger.Error(err))
		rawItems = nil
	}
	var items []Item
	if err := httpclient.Decode(rawItems, &items); err != nil {
		return model.Candidate{}, err
	}
	return Extract(u, raw, items), nil
}
