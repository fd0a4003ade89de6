package model

import (
	"strings"
	"time"
)

// Candidate is one record freshly extracted from a source, already mapped
// into the common Person shape.
type Candidate struct {
	Source  Source
	Keyword string

	Email          string
	OrcidID        string
	GitHubUsername string
	QiitaID        string

	FullName           string
	CurrentAffiliation string
	LinkedInURL        string
	PersonalBlogURL    string

	IsResearcher bool
	IsEngineer   bool

	ExperienceSummary string
	DataSources       []string

	Raw map[string]any
}

// Validate rejects records that must never reach the resolver.
func (c *Candidate) Validate() error {
	if !c.Source.Valid() {
		return ErrUnknownSource
	}
	if strings.TrimSpace(c.FullName) == "" {
		return ErrMissingFullName
	}
	return nil
}

// HasProvenance reports whether DataSources names the originating source.
func (c *Candidate) HasProvenance() bool {
	for _, s := range c.DataSources {
		if s == string(c.Source) {
			return true
		}
	}
	return false
}

// Identifiers extracts the lookup bag for c.
func (c *Candidate) Identifiers() Identifiers {
	return Identifiers{
		Email:              c.Email,
		OrcidID:            c.OrcidID,
		GitHubUsername:     c.GitHubUsername,
		FullName:           c.FullName,
		CurrentAffiliation: c.CurrentAffiliation,
	}
}

// SourceNames returns DataSources with the originating source appended when missing.
func (c *Candidate) SourceNames() []string {
	out := make([]string, 0, len(c.DataSources)+1)
	seen := make(map[string]struct{}, len(c.DataSources)+1)
	for _, s := range c.DataSources {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if _, ok := seen[string(c.Source)]; !ok && c.Source != "" {
		out = append(out, string(c.Source))
	}
	return out
}

// NewPerson builds a person verbatim from c. The id is left for the repository.
func (c *Candidate) NewPerson(now time.Time) Person {
	p := Person{
		Email:              c.Email,
		OrcidID:            c.OrcidID,
		GitHubUsername:     c.GitHubUsername,
		QiitaID:            c.QiitaID,
		FullName:           c.FullName,
		CurrentAffiliation: c.CurrentAffiliation,
		LinkedInURL:        c.LinkedInURL,
		PersonalBlogURL:    c.PersonalBlogURL,
		IsResearcher:       c.IsResearcher,
		IsEngineer:         c.IsEngineer,
		ExperienceSummary:  c.ExperienceSummary,
		DataSources:        c.SourceNames(),
		LastUpdatedAt:      now,
	}
	p.SetRaw(c.Source, cloneMap(c.Raw))
	return p
}
