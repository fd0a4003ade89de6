package github_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/talentradar/internal/adapters/sources/github"
	"github.com/okian/talentradar/internal/adapters/sources/httpclient"
	"github.com/okian/talentradar/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestExtract(t *testing.T) {
	convey.Convey("Given a user with repositories", t, func() {
		u := github.User{Login: "octo", Company: "GitHub", Blog: "https://octo.dev", Bio: "Gopher", Email: "octo@x.io"}
		repos := []github.Repo{
			{Name: "a", Description: "first", Language: "Go"},
			{Name: "b", Language: "Rust"},
			{Name: "c", Description: "third"},
			{Name: "d"}, {Name: "e"}, {Name: "f", Description: "ignored"},
		}
		c := github.Extract(u, map[string]any{"login": "octo"}, repos)

		convey.Convey("Then the summary lists bio then the top repositories", func() {
			convey.So(c.ExperienceSummary, convey.ShouldEqual,
				"Gopher\nRepository: a - first\nLanguage: Go\nLanguage: Rust\nRepository: c - third")
		})
		convey.Convey("Then identity fields are mapped", func() {
			convey.So(c.FullName, convey.ShouldEqual, "octo")
			convey.So(c.GitHubUsername, convey.ShouldEqual, "octo")
			convey.So(c.Email, convey.ShouldEqual, "octo@x.io")
			convey.So(c.CurrentAffiliation, convey.ShouldEqual, "GitHub")
			convey.So(c.IsEngineer, convey.ShouldBeTrue)
			convey.So(c.IsResearcher, convey.ShouldBeFalse)
			convey.So(c.DataSources, convey.ShouldResemble, []string{"github"})
			convey.So(c.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestCollect(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a fake GitHub API", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/search/users", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("sort") != "followers" || r.Header.Get("Authorization") != "token t0k" {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"items":[{"login":"alice"},{"login":"ghost"},{"login":"bob"},{"login":"carol"}]}`))
		})
		mux.HandleFunc("/users/alice", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"login":"alice","name":"Alice A","email":null,"bio":"ML engineer","followers":10}`))
		})
		mux.HandleFunc("/users/alice/repos", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"name":"nn","description":"neural nets","language":"Python","stargazers_count":5}]`))
		})
		mux.HandleFunc("/users/bob", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"login":"bob"}`))
		})
		mux.HandleFunc("/users/bob/repos", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := github.New(srv.URL, "t0k", nil)
		convey.So(client.Source(), convey.ShouldEqual, model.SourceGitHub)

		convey.Convey("When collecting three users", func() {
			cands, err := client.Collect(ctx, "machine learning", 3)

			convey.Convey("Then broken users are skipped and the rest extracted", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(cands), convey.ShouldEqual, 2)
				convey.So(cands[0].FullName, convey.ShouldEqual, "Alice A")
				convey.So(cands[0].ExperienceSummary, convey.ShouldEqual,
					"ML engineer\nRepository: nn - neural nets\nLanguage: Python")
				convey.So(cands[0].Keyword, convey.ShouldEqual, "machine learning")
				convey.So(cands[0].Raw["followers"], convey.ShouldEqual, float64(10))
				convey.So(cands[1].FullName, convey.ShouldEqual, "bob")
				convey.So(cands[1].ExperienceSummary, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When the search itself fails", func() {
			anon := github.New(srv.URL, "", nil)
			cands, err := anon.Collect(ctx, "go", 3)
			convey.So(cands, convey.ShouldBeEmpty)
			convey.So(errors.Is(err, httpclient.ErrUnexpectedStatus), convey.ShouldBeTrue)
		})
	})
}
