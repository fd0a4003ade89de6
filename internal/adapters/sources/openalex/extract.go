package openalex

import (
	"sort"
	"strings"

	"github.com/okian/talentradar/internal/domain/model"
)

const (
	maxWorks    = 5
	maxConcepts = 3
	orcidPrefix = "orcid.org/"
)

// Extract maps an author and their most cited works onto a candidate.
func Extract(a Author, raw map[string]any, works []Work) model.Candidate {
	var lines []string
	inst := a.institution()
	if inst != "" {
		lines = append(lines, "所属: "+inst)
	}
	for i, w := range works {
		if i == maxWorks {
			break
		}
		if w.Title != "" {
			lines = append(lines, "論文: "+w.Title)
		}
		if abs := Abstract(w.AbstractInvertedIndex); abs != "" {
			lines = append(lines, "概要: "+abs)
		}
		var fields []string
		for j, c := range w.Concepts {
			if j == maxConcepts {
				break
			}
			if c.DisplayName != "" {
				fields = append(fields, c.DisplayName)
			}
		}
		if len(fields) > 0 {
			lines = append(lines, "研究分野: "+strings.Join(fields, ", "))
		}
	}

	return model.Candidate{
		Source:             model.SourceOpenAlex,
		FullName:           a.DisplayName,
		OrcidID:            OrcidID(a.Orcid),
		CurrentAffiliation: inst,
		IsResearcher:       true,
		ExperienceSummary:  strings.Join(lines, "\n"),
		DataSources:        []string{string(model.SourceOpenAlex)},
		Raw:                raw,
	}
}

func (a Author) institution() string {
	if a.LastKnownInstitution != nil && a.LastKnownInstitution.DisplayName != "" {
		return a.LastKnownInstitution.DisplayName
	}
	for _, in := range a.LastKnownInstitutions {
		if in.DisplayName != "" {
			return in.DisplayName
		}
	}
	return ""
}

// OrcidID strips the resolver prefix from an ORCID URL.
func OrcidID(u string) string {
	i := strings.LastIndex(u, orcidPrefix)
	if i < 0 {
		return ""
	}
	return u[i+len(orcidPrefix):]
}

// Abstract rebuilds plain text from an inverted index of word positions.
func Abstract(idx map[string][]int) string {
	type slot struct {
		pos  int
		word string
	}
	var slots []slot
	for w, ps := range idx {
		for _, p := range ps {
			slots = append(slots, slot{p, w})
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].pos != slots[j].pos {
			return slots[i].pos < slots[j].pos
		}
		return slots[i].word < slots[j].word
	})
	words := make([]string, len(slots))
	for i, s := range slots {
		words[i] = s.word
	}
	return strings.Join(words, " ")
}

// shortID turns https://openalex.org/A123 into A123.
func shortID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
