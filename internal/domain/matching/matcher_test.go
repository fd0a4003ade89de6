package matching_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/okian/talentradar/internal/domain/matching"
	"github.com/okian/talentradar/internal/domain/model"
	"github.com/okian/talentradar/internal/domain/textnorm"
	"github.com/smartystreets/goconvey/convey"
)

// fieldsNormalizer splits on whitespace and counts calls.
type fieldsNormalizer struct{ calls atomic.Int32 }

func (f *fieldsNormalizer) Normalize(_ context.Context, text string) []string {
	f.calls.Add(1)
	return strings.Fields(strings.ToLower(text))
}

func persons(summaries ...string) []model.Person {
	out := make([]model.Person, len(summaries))
	for i, s := range summaries {
		out[i] = model.Person{ID: string(rune('1' + i)), FullName: "p", ExperienceSummary: s}
	}
	return out
}

func ids(rs []model.MatchResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.PersonID
	}
	return out
}

func TestMatcher(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given the default normalizer", t, func() {
		m := matching.New(textnorm.New())
		ps := persons("Python expert in deep learning", "Java backend developer", "")

		convey.Convey("When matching the same requirement repeatedly", func() {
			first := m.Match(ctx, "Python machine learning", ps)

			convey.Convey("Then the order is stable and the empty summary scores zero", func() {
				convey.So(ids(first), convey.ShouldResemble, []string{"1", "2", "3"})
				convey.So(first[0].Score, convey.ShouldBeGreaterThan, 0)
				convey.So(first[0].Score, convey.ShouldBeLessThanOrEqualTo, 1)
				convey.So(first[2].Score, convey.ShouldEqual, 0)
				for i := 0; i < 5; i++ {
					convey.So(m.Match(ctx, "Python machine learning", ps), convey.ShouldResemble, first)
				}
			})
		})
	})

	convey.Convey("Given a whitespace normalizer", t, func() {
		norm := &fieldsNormalizer{}
		m := matching.New(norm)

		convey.Convey("When the requirement or person list is empty", func() {
			convey.So(m.Match(ctx, "", persons("go")), convey.ShouldBeEmpty)
			convey.So(m.Match(ctx, "go", nil), convey.ShouldBeEmpty)

			convey.Convey("Then nothing was normalized", func() {
				convey.So(norm.calls.Load(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When scores tie", func() {
			rs := m.Match(ctx, "rust", persons("java", "kotlin", "rust", "scala"))

			convey.Convey("Then ties keep input order behind the best match", func() {
				convey.So(ids(rs), convey.ShouldResemble, []string{"3", "1", "2", "4"})
			})
		})

		convey.Convey("When a better overlap exists", func() {
			rs := m.Match(ctx, "golang postgres", persons("golang", "golang postgres", "postgres"))
			convey.So(rs[0].PersonID, convey.ShouldEqual, "2")
			convey.So(rs[0].Score, convey.ShouldAlmostEqual, 1.0, 1e-9)
			convey.So(len(rs), convey.ShouldEqual, 3)
		})

		convey.Convey("When every document has no usable terms", func() {
			rs := m.Match(ctx, "a", persons("b", ""))
			convey.So(rs, convey.ShouldBeEmpty)
			convey.So(norm.calls.Load(), convey.ShouldEqual, 3)
		})
	})
}
