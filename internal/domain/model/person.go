// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Source names an upstream system candidate data is extracted from.
type Source string

// Known sources.
const (
	SourceGitHub   Source = "github"
	SourceQiita    Source = "qiita"
	SourceOpenAlex Source = "openalex"
	SourceKaken    Source = "kaken"
)

// Sources returns every known source in display order.
func Sources() []Source {
	return []Source{SourceGitHub, SourceQiita, SourceOpenAlex, SourceKaken}
}

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceGitHub, SourceQiita, SourceOpenAlex, SourceKaken:
		return true
	}
	return false
}

// ParseSource converts a user-provided name into a Source.
func ParseSource(name string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return s, nil
}

// Person is a deduplicated candidate aggregated across sources.
// Optional string fields use "" for absent.
type Person struct {
	ID string `json:"id"`

	Email          string `json:"email,omitempty"`
	OrcidID        string `json:"orcid_id,omitempty"`
	GitHubUsername string `json:"github_username,omitempty"`
	QiitaID        string `json:"qiita_id,omitempty"`

	FullName           string `json:"full_name"`
	CurrentAffiliation string `json:"current_affiliation,omitempty"`
	LinkedInURL        string `json:"linkedin_url,omitempty"`
	PersonalBlogURL    string `json:"personal_blog_url,omitempty"`

	IsResearcher bool `json:"is_researcher"`
	IsEngineer   bool `json:"is_engineer"`

	ExperienceSummary string   `json:"experience_summary"`
	DataSources       []string `json:"data_sources"`

	RawGitHub   map[string]any `json:"raw_github_data,omitempty"`
	RawQiita    map[string]any `json:"raw_qiita_data,omitempty"`
	RawOpenAlex map[string]any `json:"raw_openalex_data,omitempty"`
	RawKaken    map[string]any `json:"raw_kaken_data,omitempty"`

	// MatchScore is nil until the first match run.
	MatchScore    *float64  `json:"match_score,omitempty"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// Raw returns the stored payload for src.
func (p *Person) Raw(src Source) map[string]any {
	switch src {
	case SourceGitHub:
		return p.RawGitHub
	case SourceQiita:
		return p.RawQiita
	case SourceOpenAlex:
		return p.RawOpenAlex
	case SourceKaken:
		return p.RawKaken
	}
	return nil
}

// SetRaw replaces the payload for src wholesale.
func (p *Person) SetRaw(src Source, raw map[string]any) {
	switch src {
	case SourceGitHub:
		p.RawGitHub = raw
	case SourceQiita:
		p.RawQiita = raw
	case SourceOpenAlex:
		p.RawOpenAlex = raw
	case SourceKaken:
		p.RawKaken = raw
	}
}

// HasSource reports whether name is already in DataSources.
func (p *Person) HasSource(name string) bool {
	for _, s := range p.DataSources {
		if s == name {
			return true
		}
	}
	return false
}

// Identifiers extracts the lookup bag for p.
func (p *Person) Identifiers() Identifiers {
	return Identifiers{
		Email:              p.Email,
		OrcidID:            p.OrcidID,
		GitHubUsername:     p.GitHubUsername,
		FullName:           p.FullName,
		CurrentAffiliation: p.CurrentAffiliation,
	}
}

// Clone returns a deep copy of p.
func (p Person) Clone() Person {
	out := p
	if p.DataSources != nil {
		out.DataSources = append(make([]string, 0, len(p.DataSources)), p.DataSources...)
	}
	out.RawGitHub = cloneMap(p.RawGitHub)
	out.RawQiita = cloneMap(p.RawQiita)
	out.RawOpenAlex = cloneMap(p.RawOpenAlex)
	out.RawKaken = cloneMap(p.RawKaken)
	if p.MatchScore != nil {
		v := *p.MatchScore
		out.MatchScore = &v
	}
	return out
}

// CloneRaw deep-copies a decoded JSON payload.
func CloneRaw(in map[string]any) map[string]any { return cloneMap(in) }

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

// Identifiers is the partial bag used to look up an existing person.
type Identifiers struct {
	Email              string
	OrcidID            string
	GitHubUsername     string
	FullName           string
	CurrentAffiliation string
}

// MatchResult pairs a person with its similarity to a requirement.
type MatchResult struct {
	PersonID string  `json:"person_id"`
	Score    float64 `json:"score"`
}
