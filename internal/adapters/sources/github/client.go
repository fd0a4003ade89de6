package github

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

// DefaultBaseURL is the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

// Client searches users by keyword and enriches each with profile and repositories.
type Client struct {
	api *httpclient.Client
	log logger.Logger
}

// New builds a client. An empty token uses anonymous access.
func New(baseURL, token string, log logger.Logger, opts ...httpclient.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	log = logger.OrGlobal(log).Named("github")
	auth := ""
	if token != "" {
		auth = "token " + token
	}
	base := []httpclient.Option{
		httpclient.WithHeader("Accept", "application/vnd.github.v3+json"),
		httpclient.WithHeader("Authorization", auth),
		httpclient.WithRateLimit(httpclient.RateLimit{RemainingHeader: "X-RateLimit-Remaining", ResetHeader: "X-RateLimit-Reset"}),
		httpclient.WithLogger(log),
	}
	return &Client{api: httpclient.New("github", baseURL, append(base, opts...)...), log: log}
}

// Source implements the collector contract.
func (c *Client) Source() model.Source { return model.SourceGitHub }

// Collect returns up to limit candidates for keyword. Failures for one user
// are logged and skipped; a failed search is returned as an error.
func (c *Client) Collect(ctx context.Context, keyword string, limit int) ([]model.Candidate, error) {
	var found searchResponse
	q := url.Values{
		"q":        {keyword},
		"sort":     {"followers"},
		"order":    {"desc"},
		"per_page": {strconv.Itoa(httpclient.PerPage(limit))},
	}
	if err := c.api.GetJSON(ctx, "/search/users", q, &found); err != nil {
		metrics.RecordSourceError(string(model.SourceGitHub))
		return nil, fmt.Errorf("search users %q: %w", keyword, err)
	}
	items := found.Items
	if len(items) > limit {
		items = items[:limit]
	}

	out := make([]model.Candidate, 0, len(items))
	for _, it := range items {
		if it.Login == "" {
			continue
		}
		cand, err := c.user(ctx, it.Login)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			metrics.RecordSourceError(string(model.SourceGitHub))
			c.log.Warn(ctx, "skip user", logger.String("login", it.Login),
				logger.String(logger.KeyKeyword, keyword), logger.Error(err))
			continue
		}
		cand.Keyword = keyword
		out = append(out, cand)
	}
	c.log.Info(ctx, "collected", logger.String(logger.KeyKeyword, keyword), logger.Int("count", len(out)))
	return out, nil
}

func (c *Client) user(ctx context.Context, login string) (model.Candidate, error) {
	var raw map[string]any
	if err := c.api.GetJSON(ctx, "/users/"+url.PathEscape(login), nil, &raw); err != nil {
		return model.Candidate{}, fmt.Errorf("user details: %w", err)
	}
	var u User
	if err := httpclient.Decode(raw, &u); err != nil {
		return model.Candidate{}, err
	}

	var rawRepos []any
	q := url.Values{"sort": {"stars"}, "direction": {"desc"}, "per_page": {strconv.Itoa(maxRepos)}}
	if err := c.api.GetJSON(ctx, "/users/"+url.PathEscape(login)+"/repos", q, &rawRepos); err != nil {
		// a profile without repositories is still a candidate
		c.log.Debug(ctx, "repositories unavailable", logger.String("login", login), logger.Error(err))
		rawRepos = nil
	}
	var repos []Repo
	if err := httpclient.Decode(rawRepos, &repos); err != nil {
		return model.Candidate{}, err
	}
	return Extract(u, raw, repos), nil
}
