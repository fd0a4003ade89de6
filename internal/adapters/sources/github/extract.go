package github

import (
	"fmt"
	"strings"

	"github.com/okian/talentradar/internal/domain/model"
)

// maxRepos is how many repositories contribute to the summary.
const maxRepos = 5

// Extract maps a user and their top repositories onto a candidate.
func Extract(u User, raw map[string]any, repos []Repo) model.Candidate {
	lines := make([]string, 0, 1+2*maxRepos)
	if u.Bio != "" {
		lines = append(lines, u.Bio)
	}
	for i, r := range repos {
		if i == maxRepos {
			break
		}
		if r.Description != "" {
			lines = append(lines, fmt.Sprintf("Repository: %s - %s", r.Name, r.Description))
		}
		if r.Language != "" {
			lines = append(lines, "Language: "+r.Language)
		}
	}

	name := u.Name
	if name == "" {
		name = u.Login
	}
	return model.Candidate{
		Source:             model.SourceGitHub,
		FullName:           name,
		Email:              u.Email,
		CurrentAffiliation: u.Company,
		GitHubUsername:     u.Login,
		PersonalBlogURL:    u.Blog,
		IsEngineer:         true,
		ExperienceSummary:  strings.Join(lines, "\n"),
		DataSources:        []string{string(model.SourceGitHub)},
		Raw:                raw,
	}
}
