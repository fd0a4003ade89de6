package kaken

import (
	"strings"

	"github.com/okian/talentradar/internal/domain/model"
)

const maxProjects = 5

// Extract maps a researcher and their projects onto a candidate.
func Extract(r Researcher, raw map[string]any, projects []Project) model.Candidate {
	var lines []string
	if r.Affiliation != "" {
		lines = append(lines, "所属: "+r.Affiliation)
	}
	if r.ResearchArea != "" {
		lines = append(lines, "研究分野: "+r.ResearchArea)
	}
	for i, p := range projects {
		if i == maxProjects {
			break
		}
		if p.Title != "" {
			lines = append(lines, "研究プロジェクト: "+p.Title)
		}
		if p.Summary != "" {
			lines = append(lines, "概要: "+p.Summary)
		}
		if len(p.Keywords) > 0 {
			lines = append(lines, "キーワード: "+strings.Join(p.Keywords, ", "))
		}
	}

	return model.Candidate{
		Source:             model.SourceKaken,
		FullName:           r.Name,
		CurrentAffiliation: r.Affiliation,
		IsResearcher:       true,
		ExperienceSummary:  strings.Join(lines, "\n"),
		DataSources:        []string{string(model.SourceKaken)},
		Raw:                raw,
	}
}
