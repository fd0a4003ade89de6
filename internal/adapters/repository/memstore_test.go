package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/talentradar/internal/adapters/repository"
	"github.com/okian/talentradar/internal/domain/identity"
	"github.com/okian/talentradar/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

var _ repository.Store = (*repository.MemoryStore)(nil)
var _ repository.Store = (*repository.PostgresStore)(nil)
var _ identity.Repository = (*repository.MemoryStore)(nil)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	Convey("Given an empty memory store", t, func() {
		clock := now
		s := repository.NewMemoryStore(
			repository.WithIDGenerator(sequentialIDs()),
			repository.WithClock(func() time.Time { return clock }),
		)

		Convey("When creating a person", func() {
			p, err := s.Create(ctx, model.Person{FullName: "Ada", Email: "ada@x.io"})

			Convey("Then an id and timestamp are assigned", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldEqual, "id-1")
				So(p.LastUpdatedAt, ShouldEqual, now)
				So(p.DataSources, ShouldNotBeNil)

				got, err := s.FindByID(ctx, "id-1")
				So(err, ShouldBeNil)
				So(got.Email, ShouldEqual, "ada@x.io")
			})

			Convey("Then a second person with the same email is rejected", func() {
				_, err := s.Create(ctx, model.Person{FullName: "Other", Email: "ada@x.io"})
				So(errors.Is(err, repository.ErrDuplicate), ShouldBeTrue)
				So(errors.Is(err, model.ErrDuplicateIdentity), ShouldBeTrue)
				n, _ := s.Count(ctx)
				So(n, ShouldEqual, 1)
			})

			Convey("Then many persons without identifiers are allowed", func() {
				for i := 0; i < 3; i++ {
					_, err := s.Create(ctx, model.Person{FullName: "Anon"})
					So(err, ShouldBeNil)
				}
				n, _ := s.Count(ctx)
				So(n, ShouldEqual, 4)
			})

			Convey("Then returned values do not alias stored state", func() {
				got, _ := s.FindByEmail(ctx, "ada@x.io")
				got.FullName = "mutated"
				again, _ := s.FindByEmail(ctx, "ada@x.io")
				So(again.FullName, ShouldEqual, "Ada")
			})
		})

		Convey("When updating", func() {
			a, _ := s.Create(ctx, model.Person{FullName: "A", GitHubUsername: "a"})
			b, _ := s.Create(ctx, model.Person{FullName: "B", GitHubUsername: "b"})

			Convey("And an identifier changes", func() {
				a.GitHubUsername = "a2"
				_, err := s.Update(ctx, a)
				So(err, ShouldBeNil)

				_, err = s.FindByGitHubUsername(ctx, "a")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				got, err := s.FindByGitHubUsername(ctx, "a2")
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, a.ID)
			})

			Convey("And the new identifier belongs to someone else", func() {
				a.GitHubUsername = "b"
				a.FullName = "changed"
				_, err := s.Update(ctx, a)
				So(errors.Is(err, repository.ErrDuplicate), ShouldBeTrue)

				got, _ := s.FindByID(ctx, a.ID)
				So(got.FullName, ShouldEqual, "A")
				owner, _ := s.FindByGitHubUsername(ctx, "b")
				So(owner.ID, ShouldEqual, b.ID)
			})

			Convey("And the id is unknown", func() {
				_, err := s.Update(ctx, model.Person{ID: "missing", FullName: "x"})
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				_, err = s.Update(ctx, model.Person{FullName: "x"})
				So(errors.Is(err, repository.ErrMissingID), ShouldBeTrue)
			})
		})

		Convey("When several persons are stored", func() {
			for _, p := range []model.Person{
				{FullName: "Taro", CurrentAffiliation: "Tokyo Univ", ExperienceSummary: "Deep Learning"},
				{FullName: "Hanako", CurrentAffiliation: "NII", ExperienceSummary: "graph theory", OrcidID: "0000-1"},
				{FullName: "Jiro", CurrentAffiliation: "tokyo tech", ExperienceSummary: ""},
			} {
				_, err := s.Create(ctx, p)
				So(err, ShouldBeNil)
			}

			Convey("Then paging follows creation order", func() {
				page, err := s.List(ctx, 1, 5)
				So(err, ShouldBeNil)
				So(len(page), ShouldEqual, 2)
				So(page[0].FullName, ShouldEqual, "Hanako")

				empty, err := s.List(ctx, 10, 5)
				So(err, ShouldBeNil)
				So(empty, ShouldBeEmpty)

				_, err = s.List(ctx, -1, 5)
				So(errors.Is(err, repository.ErrInvalidPage), ShouldBeTrue)
			})

			Convey("Then search is a case-insensitive substring match", func() {
				found, err := s.Search(ctx, "TOKYO")
				So(err, ShouldBeNil)
				So(len(found), ShouldEqual, 2)

				found, _ = s.Search(ctx, "learn")
				So(len(found), ShouldEqual, 1)
				So(found[0].FullName, ShouldEqual, "Taro")
			})

			Convey("Then identifier lookup follows precedence", func() {
				got, err := s.FindByIdentifiers(ctx, model.Identifiers{FullName: "Taro", CurrentAffiliation: "Tokyo Univ"})
				So(err, ShouldBeNil)
				So(got.FullName, ShouldEqual, "Taro")

				_, err = s.FindByIdentifiers(ctx, model.Identifiers{OrcidID: "9999", FullName: "Taro", CurrentAffiliation: "Tokyo Univ"})
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then match scores are overwritten for known ids only", func() {
				n, err := s.UpdateMatchScores(ctx, map[string]float64{"id-1": 0.8, "id-3": 0, "nope": 1})
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				p1, _ := s.FindByID(ctx, "id-1")
				So(*p1.MatchScore, ShouldEqual, 0.8)
				p2, _ := s.FindByID(ctx, "id-2")
				So(p2.MatchScore, ShouldBeNil)
			})

			Convey("Then scoring refreshes last_updated_at", func() {
				clock = now.Add(time.Hour)
				_, err := s.UpdateMatchScores(ctx, map[string]float64{"id-1": 0.3})
				So(err, ShouldBeNil)
				p1, _ := s.FindByID(ctx, "id-1")
				So(p1.LastUpdatedAt, ShouldEqual, now.Add(time.Hour))
				p2, _ := s.FindByID(ctx, "id-2")
				So(p2.LastUpdatedAt, ShouldEqual, now)
			})

			Convey("Then an update never overwrites a newer match score", func() {
				stale, err := s.FindByID(ctx, "id-1")
				So(err, ShouldBeNil)
				_, err = s.UpdateMatchScores(ctx, map[string]float64{"id-1": 0.7})
				So(err, ShouldBeNil)

				stale.ExperienceSummary = "merged"
				updated, err := s.Update(ctx, stale)
				So(err, ShouldBeNil)
				So(*updated.MatchScore, ShouldEqual, 0.7)
				got, _ := s.FindByID(ctx, "id-1")
				So(got.ExperienceSummary, ShouldEqual, "merged")
				So(*got.MatchScore, ShouldEqual, 0.7)
			})

			Convey("Then delete removes one and delete-all clears everything", func() {
				So(s.Delete(ctx, "id-2"), ShouldBeNil)
				So(errors.Is(s.Delete(ctx, "id-2"), repository.ErrNotFound), ShouldBeTrue)
				_, err := s.FindByOrcidID(ctx, "0000-1")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

				n, err := s.DeleteAll(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				all, _ := s.ListAll(ctx)
				So(all, ShouldBeEmpty)
			})
		})
	})
}
