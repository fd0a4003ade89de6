// Package matching ranks persons against a free-text requirement by
// TF-IDF cosine similarity over normalized experience summaries.
package matching

import (
	"context"
	"sort"
	"strings"

	"github.com/okian/talentradar/internal/domain/model"
	"github.com/okian/talentradar/pkg/logger"
)

// Normalizer tokenizes text for the shared feature space.
type Normalizer interface {
	Normalize(ctx context.Context, text string) []string
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the matcher logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.log = l
		}
	}
}

// Matcher is stateless apart from its collaborators and safe for concurrent use.
type Matcher struct {
	norm Normalizer
	log  logger.Logger
}

// New returns a matcher using norm for tokenization.
func New(norm Normalizer, opts ...Option) *Matcher {
	m := &Matcher{norm: norm, log: logger.Nop()}
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.Named("matcher")
	return m
}

// Match scores every person against requirement and returns them sorted by
// score descending, ties in input order. Degenerate input yields an empty
// slice, never an error.
func (m *Matcher) Match(ctx context.Context, requirement string, persons []model.Person) []model.MatchResult {
	if requirement == "" || len(persons) == 0 {
		return []model.MatchResult{}
	}

	corpus := make([]string, 0, len(persons)+1)
	corpus = append(corpus, strings.Join(m.norm.Normalize(ctx, requirement), " "))
	for i := range persons {
		corpus = append(corpus, strings.Join(m.norm.Normalize(ctx, persons[i].ExperienceSummary), " "))
	}

	vecs, err := vectorize(corpus)
	if err != nil {
		m.log.Warn(ctx, "vectorization failed, returning no matches",
			logger.Int("persons", len(persons)), logger.Error(err))
		return []model.MatchResult{}
	}

	out := make([]model.MatchResult, len(persons))
	for i := range persons {
		out[i] = model.MatchResult{PersonID: persons[i].ID, Score: cosine(vecs[0], vecs[i+1])}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
