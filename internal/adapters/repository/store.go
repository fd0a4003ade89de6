// Package repository stores persons behind a backend-neutral interface.
package repository

import (
	"context"

	"github.com/okian/talentradar/internal/domain/model"
)

// Store provides read/write access to persons.
//
// Email, ORCID and GitHub login are unique among stored persons; the empty
// string means absent and is never subject to uniqueness.
type Store interface {
	FindByEmail(ctx context.Context, email string) (model.Person, error)
	FindByOrcidID(ctx context.Context, orcidID string) (model.Person, error)
	FindByGitHubUsername(ctx context.Context, username string) (model.Person, error)
	FindByNameAndAffiliation(ctx context.Context, fullName, affiliation string) (model.Person, error)

	// FindByIdentifiers applies the ordered identity lookup.
	// Returns ErrNotFound when the first applicable identifier misses.
	FindByIdentifiers(ctx context.Context, ids model.Identifiers) (model.Person, error)

	// FindByID returns ErrNotFound if the id is unknown.
	FindByID(ctx context.Context, id string) (model.Person, error)

	// Create assigns a fresh id and stores p. A clash on a unique identifier
	// returns ErrDuplicate and stores nothing.
	Create(ctx context.Context, p model.Person) (model.Person, error)

	// Update replaces the row with p.ID as one write.
	Update(ctx context.Context, p model.Person) (model.Person, error)

	// Delete removes one person.
	Delete(ctx context.Context, id string) error

	// List pages through persons in creation order.
	List(ctx context.Context, skip, limit int) ([]model.Person, error)

	// ListAll returns every person in creation order.
	ListAll(ctx context.Context) ([]model.Person, error)

	// Search matches keyword case-insensitively as a substring of
	// full_name, current_affiliation or experience_summary.
	Search(ctx context.Context, keyword string) ([]model.Person, error)

	// UpdateMatchScores overwrites match_score for every known id and
	// returns how many rows changed.
	UpdateMatchScores(ctx context.Context, scores map[string]float64) (int, error)

	// DeleteAll removes every person and returns the count.
	DeleteAll(ctx context.Context) (int, error)

	// Count returns the number of stored persons.
	Count(ctx context.Context) (int, error)

	Close()
}
