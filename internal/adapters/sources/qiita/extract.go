package qiita

import (
	"strings"

	"github.com/okian/talentradar/internal/domain/model"
)

// maxItems is how many of the author's articles contribute to the summary.
const maxItems = 5

// Extract maps a user and their recent articles onto a candidate.
func Extract(u User, raw map[string]any, items []Item) model.Candidate {
	var lines []string
	if u.Description != "" {
		lines = append(lines, u.Description)
	}
	for i, it := range items {
		if i == maxItems {
			break
		}
		if it.Title != "" {
			lines = append(lines, "記事: "+it.Title)
		}
		names := make([]string, 0, len(it.Tags))
		for _, t := range it.Tags {
			if t.Name != "" {
				names = append(names, t.Name)
			}
		}
		if len(names) > 0 {
			lines = append(lines, "タグ: "+strings.Join(names, ", "))
		}
	}

	name := u.Name
	if name == "" {
		name = u.ID
	}
	blog := u.WebsiteURL
	if blog == "" {
		blog = u.TwitterScreenName
	}
	return model.Candidate{
		Source:             model.SourceQiita,
		FullName:           name,
		QiitaID:            u.ID,
		CurrentAffiliation: u.Organization,
		PersonalBlogURL:    blog,
		IsEngineer:         true,
		ExperienceSummary:  strings.Join(lines, "\n"),
		DataSources:        []string{string(model.SourceQiita)},
		Raw:                raw,
	}
}
