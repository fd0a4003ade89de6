package identity

import (
	"time"

	"github.com/okian/talentradar/internal/domain/model"
)

// summarySeparator joins accumulated experience summaries.
const summarySeparator = "\n\n"

// Merge folds incoming into a copy of existing and returns the result.
// Neither argument is modified.
//
//   - experience_summary: appended after a blank line, never deduplicated
//   - is_engineer / is_researcher: OR
//   - raw payload of the incoming source: replaced wholesale
//   - data_sources: ordered set union
//   - every other non-empty incoming field overwrites the stored one
//   - last_updated_at: now
func Merge(existing model.Person, incoming model.Candidate, now time.Time) model.Person {
	merged := existing.Clone()

	if incoming.ExperienceSummary != "" {
		if merged.ExperienceSummary != "" {
			merged.ExperienceSummary = merged.ExperienceSummary + summarySeparator + incoming.ExperienceSummary
		} else {
			merged.ExperienceSummary = incoming.ExperienceSummary
		}
	}

	merged.IsEngineer = merged.IsEngineer || incoming.IsEngineer
	merged.IsResearcher = merged.IsResearcher || incoming.IsResearcher

	if incoming.Raw != nil {
		merged.SetRaw(incoming.Source, model.CloneRaw(incoming.Raw))
	}

	for _, s := range incoming.SourceNames() {
		if !merged.HasSource(s) {
			merged.DataSources = append(merged.DataSources, s)
		}
	}
	if merged.DataSources == nil {
		merged.DataSources = []string{}
	}

	overwrite(&merged.Email, incoming.Email)
	overwrite(&merged.OrcidID, incoming.OrcidID)
	overwrite(&merged.GitHubUsername, incoming.GitHubUsername)
	overwrite(&merged.QiitaID, incoming.QiitaID)
	overwrite(&merged.FullName, incoming.FullName)
	overwrite(&merged.CurrentAffiliation, incoming.CurrentAffiliation)
	overwrite(&merged.LinkedInURL, incoming.LinkedInURL)
	overwrite(&merged.PersonalBlogURL, incoming.PersonalBlogURL)

	merged.LastUpdatedAt = now
	return merged
}

func overwrite(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
