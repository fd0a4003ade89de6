// Package identity decides whether an incoming candidate denotes an already
// stored person and folds it into that person.
//
// Lookup precedence is email, ORCID, GitHub login, then the exact
// (full_name, current_affiliation) pair. Only the first identifier the
// candidate carries is consulted; a miss on that identifier means "new
// person" even when weaker signals would have matched.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/talentradar/internal/domain/model"
)

// Strategy names.
const (
	StrategyEmail           = "email"
	StrategyOrcid           = "orcid_id"
	StrategyGitHub          = "github_username"
	StrategyNameAffiliation = "name_affiliation"
	StrategyNone            = "none"
)

// Finder is the read side of the person repository used for resolution.
// Each method returns model.ErrPersonNotFound on a miss.
type Finder interface {
	FindByEmail(ctx context.Context, email string) (model.Person, error)
	FindByOrcidID(ctx context.Context, orcidID string) (model.Person, error)
	FindByGitHubUsername(ctx context.Context, username string) (model.Person, error)
	FindByNameAndAffiliation(ctx context.Context, fullName, affiliation string) (model.Person, error)
}

// Strategy is one row of the lookup decision table.
type Strategy struct {
	Name    string
	Applies func(ids model.Identifiers) bool
	Lookup  func(ctx context.Context, f Finder, ids model.Identifiers) (model.Person, error)
}

// DefaultStrategies returns the lookup table in precedence order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{
			Name:    StrategyEmail,
			Applies: func(ids model.Identifiers) bool { return ids.Email != "" },
			Lookup: func(ctx context.Context, f Finder, ids model.Identifiers) (model.Person, error) {
				return f.FindByEmail(ctx, ids.Email)
			},
		},
		{
			Name:    StrategyOrcid,
			Applies: func(ids model.Identifiers) bool { return ids.OrcidID != "" },
			Lookup: func(ctx context.Context, f Finder, ids model.Identifiers) (model.Person, error) {
				return f.FindByOrcidID(ctx, ids.OrcidID)
			},
		},
		{
			Name:    StrategyGitHub,
			Applies: func(ids model.Identifiers) bool { return ids.GitHubUsername != "" },
			Lookup: func(ctx context.Context, f Finder, ids model.Identifiers) (model.Person, error) {
				return f.FindByGitHubUsername(ctx, ids.GitHubUsername)
			},
		},
		{
			Name: StrategyNameAffiliation,
			Applies: func(ids model.Identifiers) bool {
				return ids.FullName != "" && ids.CurrentAffiliation != ""
			},
			Lookup: func(ctx context.Context, f Finder, ids model.Identifiers) (model.Person, error) {
				return f.FindByNameAndAffiliation(ctx, ids.FullName, ids.CurrentAffiliation)
			},
		},
	}
}

// Match is the outcome of Lookup.
type Match struct {
	Person   model.Person
	Found    bool
	Strategy string
}

// Lookup evaluates the first applicable strategy only.
// Repository failures other than not-found are returned wrapped in ErrLookup.
func Lookup(ctx context.Context, f Finder, ids model.Identifiers, strategies []Strategy) (Match, error) {
	for _, s := range strategies {
		if !s.Applies(ids) {
			continue
		}
		p, err := s.Lookup(ctx, f, ids)
		switch {
		case err == nil:
			return Match{Person: p, Found: true, Strategy: s.Name}, nil
		case errors.Is(err, model.ErrPersonNotFound):
			return Match{Strategy: s.Name}, nil
		default:
			return Match{Strategy: s.Name}, fmt.Errorf("%w: %s: %w", ErrLookup, s.Name, err)
		}
	}
	return Match{Strategy: StrategyNone}, nil
}

// findConflict locates the stored person owning any unique identifier of ids.
// Used after a unique-constraint violation, so every identifier is tried.
func findConflict(ctx context.Context, f Finder, ids model.Identifiers) (model.Person, string, error) {
	probes := []struct {
		name  string
		value string
		find  func() (model.Person, error)
	}{
		{StrategyEmail, ids.Email, func() (model.Person, error) { return f.FindByEmail(ctx, ids.Email) }},
		{StrategyOrcid, ids.OrcidID, func() (model.Person, error) { return f.FindByOrcidID(ctx, ids.OrcidID) }},
		{StrategyGitHub, ids.GitHubUsername, func() (model.Person, error) { return f.FindByGitHubUsername(ctx, ids.GitHubUsername) }},
	}
	for _, pr := range probes {
		if pr.value == "" {
			continue
		}
		p, err := pr.find()
		if err == nil {
			return p, pr.name, nil
		}
		if !errors.Is(err, model.ErrPersonNotFound) {
			return model.Person{}, pr.name, err
		}
	}
	return model.Person{}, StrategyNone, model.ErrPersonNotFound
}
