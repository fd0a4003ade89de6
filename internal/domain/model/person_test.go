package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/talentradar/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseSource(t *testing.T) {
	convey.Convey("Given source names", t, func() {
		convey.Convey("When the name is known", func() {
			s, err := model.ParseSource(" GitHub ")

			convey.Convey("Then it is normalized", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s, convey.ShouldEqual, model.SourceGitHub)
			})
		})

		convey.Convey("When the name is unknown", func() {
			_, err := model.ParseSource("linkedin")

			convey.Convey("Then ErrUnknownSource is returned", func() {
				convey.So(errors.Is(err, model.ErrUnknownSource), convey.ShouldBeTrue)
			})
		})

		convey.So(len(model.Sources()), convey.ShouldEqual, 4)
	})
}

func TestCandidate(t *testing.T) {
	convey.Convey("Given a candidate from qiita", t, func() {
		now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		c := model.Candidate{
			Source:            model.SourceQiita,
			FullName:          "Hanako",
			QiitaID:           "hanako",
			ExperienceSummary: "記事: Go",
			IsEngineer:        true,
			Raw:               map[string]any{"id": "hanako", "nested": map[string]any{"a": 1}},
		}

		convey.Convey("When it has no data sources", func() {
			convey.So(c.HasProvenance(), convey.ShouldBeFalse)
			p := c.NewPerson(now)

			convey.Convey("Then the new person is tagged with its source", func() {
				convey.So(p.DataSources, convey.ShouldResemble, []string{"qiita"})
				convey.So(p.LastUpdatedAt, convey.ShouldEqual, now)
				convey.So(p.RawQiita["id"], convey.ShouldEqual, "hanako")
				convey.So(p.RawGitHub, convey.ShouldBeNil)
				convey.So(p.ID, convey.ShouldEqual, "")
			})

			convey.Convey("And the raw payload is copied, not shared", func() {
				c.Raw["nested"].(map[string]any)["a"] = 2
				convey.So(p.RawQiita["nested"].(map[string]any)["a"], convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When data sources repeat", func() {
			c.DataSources = []string{"qiita", "qiita", ""}
			convey.So(c.SourceNames(), convey.ShouldResemble, []string{"qiita"})
		})

		convey.Convey("When full_name is blank", func() {
			c.FullName = "  "
			convey.So(errors.Is(c.Validate(), model.ErrMissingFullName), convey.ShouldBeTrue)
		})

		convey.Convey("When the source is unknown", func() {
			c.Source = "myspace"
			convey.So(errors.Is(c.Validate(), model.ErrUnknownSource), convey.ShouldBeTrue)
		})
	})
}

func TestPersonClone(t *testing.T) {
	convey.Convey("Given a person with nested payloads", t, func() {
		score := 0.5
		p := model.Person{
			ID:          "p1",
			DataSources: []string{"github"},
			RawGitHub:   map[string]any{"repos": []any{map[string]any{"name": "x"}}},
			MatchScore:  &score,
		}

		convey.Convey("When the clone is mutated", func() {
			c := p.Clone()
			c.DataSources[0] = "kaken"
			c.RawGitHub["repos"].([]any)[0].(map[string]any)["name"] = "y"
			*c.MatchScore = 0.9

			convey.Convey("Then the original is untouched", func() {
				convey.So(p.DataSources[0], convey.ShouldEqual, "github")
				convey.So(p.RawGitHub["repos"].([]any)[0].(map[string]any)["name"], convey.ShouldEqual, "x")
				convey.So(*p.MatchScore, convey.ShouldEqual, 0.5)
			})
		})

		convey.Convey("When the data sources are empty or absent", func() {
			empty := model.Person{DataSources: []string{}}.Clone()
			absent := model.Person{}.Clone()

			convey.So(empty.DataSources, convey.ShouldNotBeNil)
			convey.So(empty.DataSources, convey.ShouldBeEmpty)
			convey.So(absent.DataSources, convey.ShouldBeNil)
		})

		convey.Convey("When using source accessors", func() {
			p.SetRaw(model.SourceKaken, map[string]any{"name": "k"})
			convey.So(p.Raw(model.SourceKaken)["name"], convey.ShouldEqual, "k")
			convey.So(p.HasSource("github"), convey.ShouldBeTrue)
			convey.So(p.HasSource("qiita"), convey.ShouldBeFalse)
		})
	})
}
