// Package kaken collects researcher candidates from the KAKEN grants
// database open search API.
package kaken

// Researcher is one researcher record.
type Researcher struct {
	ID           string `json:"id"`
	ResearcherID string `json:"researcher_id"`
	Name         string `json:"name"`
	Affiliation  string `json:"affiliation"`
	ResearchArea string `json:"research_area"`
}

// key returns the identifier used to look up the researcher's projects.
func (r Researcher) key() string {
	if r.ResearcherID != "" {
		return r.ResearcherID
	}
	return r.ID
}

// Project is one funded research project.
type Project struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

type listResponse struct {
	List []any `json:"list"`
}
