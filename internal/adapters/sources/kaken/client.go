package kaken

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
	// DefaultBaseURL is the KAKEN open search endpoint.
	DefaultBaseURL = "https://api.kaken.nii.ac.jp/opensearch"
	// DefaultDelay spaces consecutive calls.
	DefaultDelay = 500 * time.Millisecond

	typeResearcher = "researcher"
	typeProject    = "project"
)

// Client searches researchers and their funded projects.
type Client struct {
	api *httpclient.Client
	log logger.Logger
}

// New builds a client.
func New(baseURL string, log logger.Logger, opts ...httpclient.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	log = logger.OrGlobal(log).Named("kaken")
	base := []httpclient.Option{httpclient.WithDelay(DefaultDelay), httpclient.WithLogger(log)}
	return &Client{api: httpclient.New("kaken", baseURL, append(base, opts...)...), log: log}
}

// Source implements the collector contract.
func (c *Client) Source() model.Source { return model.SourceKaken }

func (c *Client) search(ctx context.Context, q url.Values) ([]any, error) {
	q.Set("format", "json")
	if q.Get("count") == "" {
		q.Set("count", "100")
	}
	var found listResponse
	if err := c.api.GetJSON(ctx, "", q, &found); err != nil {
		return nil, err
	}
	return found.List, nil
}

// Collect returns up to limit researchers matching keyword.
func (c *Client) Collect(ctx context.Context, keyword string, limit int) ([]model.Candidate, error) {
	list, err := c.search(ctx, url.Values{
		"q":     {keyword},
		"type":  {typeResearcher},
		"count": {strconv.Itoa(httpclient.PerPage(limit))},
	})
	if err != nil {
		metrics.RecordSourceError(string(model.SourceKaken))
		return nil, fmt.Errorf("search researchers %q: %w", keyword, err)
	}
	if len(list) > limit {
		list = list[:limit]
	}

	out := make([]model.Candidate, 0, len(list))
	for _, item := range list {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var r Researcher
		if err := httpclient.Decode(raw, &r); err != nil {
			c.log.Warn(ctx, "skip researcher", logger.String(logger.KeyKeyword, keyword), logger.Error(err))
			continue
		}
		projects, err := c.projects(ctx, r.key())
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			c.log.Debug(ctx, "projects unavailable", logger.String("researcher", r.key()), logger.Error(err))
		}
		cand := Extract(r, raw, projects)
		cand.Keyword = keyword
		out = append(out, cand)
	}
	c.log.Info(ctx, "collected", logger.String(logger.KeyKeyword, keyword), logger.Int("count", len(out)))
	return out, nil
}

func (c *Client) projects(ctx context.Context, researcherID string) ([]Project, error) {
	if researcherID == "" {
		return nil, nil
	}
	list, err := c.search(ctx, url.Values{"id": {researcherID}, "type": {typeProject}})
	if err != nil {
		return nil, err
	}
	if len(list) > maxProjects {
		list = list[:maxProjects]
	}
	var projects []Project
	if err := httpclient.Decode(list, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
