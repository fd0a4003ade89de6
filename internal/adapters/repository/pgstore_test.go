package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okian/talentradar/internal/adapters/repository"
	"github.com/okian/talentradar/internal/domain/model"
)

func newPostgresStore(t *testing.T) *repository.PostgresStore {
	t.Helper()
	dsn := os.Getenv("RADAR_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("RADAR_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := repository.NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.EnsureSchema(ctx))
	_, err = s.DeleteAll(ctx)
	require.NoError(t, err)
	return s
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Person{
		FullName:    "Ada",
		Email:       "ada@x.io",
		IsEngineer:  true,
		DataSources: []string{"github"},
		RawGitHub:   map[string]any{"login": "ada", "repos": []any{"x"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, []string{"github"}, created.DataSources)
	require.Equal(t, "ada", created.RawGitHub["login"])
	require.Nil(t, created.RawQiita)
	require.Nil(t, created.MatchScore)

	_, err = s.Create(ctx, model.Person{FullName: "Dup", Email: "ada@x.io"})
	require.True(t, errors.Is(err, repository.ErrDuplicate))

	// empty identifiers are stored as NULL and never collide
	_, err = s.Create(ctx, model.Person{FullName: "Anon"})
	require.NoError(t, err)
	_, err = s.Create(ctx, model.Person{FullName: "Anon"})
	require.NoError(t, err)

	created.ExperienceSummary = "Go\n\nRust"
	created.DataSources = append(created.DataSources, "qiita")
	updated, err := s.Update(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "Go\n\nRust", updated.ExperienceSummary)
	require.Equal(t, []string{"github", "qiita"}, updated.DataSources)

	got, err := s.FindByIdentifiers(ctx, model.Identifiers{Email: "ada@x.io"})
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	found, err := s.Search(ctx, "rust")
	require.NoError(t, err)
	require.Len(t, found, 1)

	n, err := s.UpdateMatchScores(ctx, map[string]float64{created.ID: 0.42, "not-a-uuid": 1})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	got, err = s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.InDelta(t, 0.42, *got.MatchScore, 1e-9)

	// a merge written from a snapshot taken before scoring keeps the score
	longAgo := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	updated.LastUpdatedAt = longAgo
	stale, err := s.Update(ctx, updated)
	require.NoError(t, err)
	require.NotNil(t, stale.MatchScore)
	require.InDelta(t, 0.42, *stale.MatchScore, 1e-9)
	require.True(t, stale.LastUpdatedAt.Equal(longAgo))

	_, err = s.UpdateMatchScores(ctx, map[string]float64{created.ID: 0.5})
	require.NoError(t, err)
	got, err = s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, got.LastUpdatedAt.After(longAgo))

	_, err = s.FindByID(ctx, "not-a-uuid")
	require.True(t, errors.Is(err, repository.ErrNotFound))

	page, err := s.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, created.ID, page[0].ID)

	deleted, err := s.DeleteAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, deleted)
}
