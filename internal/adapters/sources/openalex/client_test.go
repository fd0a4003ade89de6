package openalex_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/talentradar/internal/adapters/sources/httpclient"
	"github.com/okian/talentradar/internal/adapters/sources/openalex"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHelpers(t *testing.T) {
	Convey("Abstracts are rebuilt by word position", t, func() {
		idx := map[string][]int{"learning": {1, 4}, "deep": {0}, "for": {2}, "robust": {3}}
		So(openalex.Abstract(idx), ShouldEqual, "deep learning for robust learning")
		So(openalex.Abstract(nil), ShouldEqual, "")
	})

	Convey("ORCID ids are taken after the resolver prefix", t, func() {
		So(openalex.OrcidID("https://orcid.org/0000-0002-1825-0097"), ShouldEqual, "0000-0002-1825-0097")
		So(openalex.OrcidID(""), ShouldEqual, "")
		So(openalex.OrcidID("0000-0002"), ShouldEqual, "")
	})
}

func TestExtract(t *testing.T) {
	Convey("Given an author with the plural institution field only", t, func() {
		a := openalex.Author{
			DisplayName:           "Yuki Tanaka",
			Orcid:                 "https://orcid.org/0000-0001",
			LastKnownInstitutions: []openalex.Institution{{DisplayName: "University of Tokyo"}},
		}
		works := []openalex.Work{{
			Title:    "Graph Networks",
			Concepts: []openalex.Concept{{DisplayName: "AI"}, {DisplayName: "Graphs"}, {DisplayName: "Math"}, {DisplayName: "Extra"}},
		}}
		c := openalex.Extract(a, nil, works)

		So(c.CurrentAffiliation, ShouldEqual, "University of Tokyo")
		So(c.OrcidID, ShouldEqual, "0000-0001")
		So(c.IsResearcher, ShouldBeTrue)
		So(c.IsEngineer, ShouldBeFalse)
		So(c.ExperienceSummary, ShouldEqual,
			"所属: University of Tokyo\n論文: Graph Networks\n研究分野: AI, Graphs, Math")
	})
}

func TestCollect(t *testing.T) {
	Convey("Given a fake OpenAlex API", t, func() {
		var agent, filter string
		mux := http.NewServeMux()
		mux.HandleFunc("/authors", func(w http.ResponseWriter, r *http.Request) {
			agent = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte(`{"results":[
				{"id":"https://openalex.org/A42","display_name":"Ada","orcid":null,
				 "last_known_institution":{"display_name":"NII"},"works_count":3},
				{"id":"https://openalex.org/A43","display_name":"Bob"}
			]}`))
		})
		mux.HandleFunc("/works", func(w http.ResponseWriter, r *http.Request) {
			filter = r.URL.Query().Get("filter")
			if !strings.HasSuffix(filter, "A42") {
				_, _ = w.Write([]byte(`{"results":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"results":[{"title":"Kernels","abstract_inverted_index":{"fast":[0],"kernels":[1]}}]}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		c := openalex.New(srv.URL, "hr@example.com", nil, httpclient.WithDelay(0))

		Convey("When one author is requested", func() {
			cands, err := c.Collect(context.Background(), "kernel methods", 1)

			Convey("Then the author and their works are extracted", func() {
				So(err, ShouldBeNil)
				So(agent, ShouldEqual, "TalentRadar/0.1 (hr@example.com)")
				So(filter, ShouldEqual, "author.id:A42")
				So(len(cands), ShouldEqual, 1)
				So(cands[0].FullName, ShouldEqual, "Ada")
				So(cands[0].OrcidID, ShouldEqual, "")
				So(cands[0].ExperienceSummary, ShouldEqual, "所属: NII\n論文: Kernels\n概要: fast kernels")
				So(cands[0].Raw["works_count"], ShouldEqual, float64(3))
			})
		})
	})
}
