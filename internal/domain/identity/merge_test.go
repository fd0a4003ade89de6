package identity_test

import (
	"testing"
	"time"

	"github.com/okian/talentradar/internal/domain/identity"
	"github.com/okian/talentradar/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMerge(t *testing.T) {
	Convey("Given a stored github person", t, func() {
		created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		now := created.Add(time.Hour)
		score := 0.7
		existing := model.Person{
			ID:                "p1",
			FullName:          "Taro Yamada",
			GitHubUsername:    "taro",
			IsEngineer:        true,
			ExperienceSummary: "A",
			DataSources:       []string{"github"},
			RawGitHub:         map[string]any{"login": "taro", "stale": true},
			MatchScore:        &score,
			LastUpdatedAt:     created,
		}

		Convey("When a qiita record for the same person arrives", func() {
			in := model.Candidate{
				Source:            model.SourceQiita,
				FullName:          "Taro Yamada",
				QiitaID:           "taro_q",
				PersonalBlogURL:   "https://taro.dev",
				ExperienceSummary: "B",
				IsEngineer:        false,
				IsResearcher:      true,
				DataSources:       []string{"qiita"},
				Raw:               map[string]any{"id": "taro_q"},
			}
			merged := identity.Merge(existing, in, now)

			Convey("Then summaries accumulate in arrival order", func() {
				So(merged.ExperienceSummary, ShouldEqual, "A\n\nB")
			})
			Convey("Then flags are OR'd and never unset", func() {
				So(merged.IsEngineer, ShouldBeTrue)
				So(merged.IsResearcher, ShouldBeTrue)
			})
			Convey("Then data sources are the ordered union", func() {
				So(merged.DataSources, ShouldResemble, []string{"github", "qiita"})
			})
			Convey("Then present fields overwrite and the rest survive", func() {
				So(merged.QiitaID, ShouldEqual, "taro_q")
				So(merged.PersonalBlogURL, ShouldEqual, "https://taro.dev")
				So(merged.GitHubUsername, ShouldEqual, "taro")
				So(merged.RawQiita, ShouldResemble, map[string]any{"id": "taro_q"})
				So(merged.RawGitHub["login"], ShouldEqual, "taro")
			})
			Convey("Then id and match score are untouched and the timestamp moves", func() {
				So(merged.ID, ShouldEqual, "p1")
				So(*merged.MatchScore, ShouldEqual, 0.7)
				So(merged.LastUpdatedAt, ShouldEqual, now)
			})
			Convey("Then the inputs are not modified", func() {
				So(existing.ExperienceSummary, ShouldEqual, "A")
				So(existing.DataSources, ShouldResemble, []string{"github"})
				So(existing.RawQiita, ShouldBeNil)
			})
		})

		Convey("When github is ingested again", func() {
			in := model.Candidate{
				Source:            model.SourceGitHub,
				FullName:          "Taro Y.",
				GitHubUsername:    "taro",
				ExperienceSummary: "C",
				DataSources:       []string{"github"},
				Raw:               map[string]any{"login": "taro"},
			}
			merged := identity.Merge(existing, in, now)

			Convey("Then the source is not duplicated", func() {
				So(merged.DataSources, ShouldResemble, []string{"github"})
			})
			Convey("Then the raw payload is replaced wholesale", func() {
				_, stale := merged.RawGitHub["stale"]
				So(stale, ShouldBeFalse)
			})
			Convey("Then last write wins on the name", func() {
				So(merged.FullName, ShouldEqual, "Taro Y.")
			})
		})

		Convey("When the incoming summary is empty", func() {
			in := model.Candidate{Source: model.SourceGitHub, FullName: "Taro Yamada"}
			merged := identity.Merge(existing, in, now)

			Convey("Then the stored summary is kept as is", func() {
				So(merged.ExperienceSummary, ShouldEqual, "A")
			})
		})

		Convey("When the stored summary is empty", func() {
			existing.ExperienceSummary = ""
			in := model.Candidate{Source: model.SourceKaken, FullName: "Taro Yamada", ExperienceSummary: "B"}
			merged := identity.Merge(existing, in, now)

			Convey("Then no leading blank line is added", func() {
				So(merged.ExperienceSummary, ShouldEqual, "B")
				So(merged.DataSources, ShouldResemble, []string{"github", "kaken"})
			})
		})
	})
}
