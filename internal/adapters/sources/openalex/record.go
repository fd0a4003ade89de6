// Package openalex collects researcher candidates from the OpenAlex catalog.
package openalex

// Institution is an author affiliation.
type Institution struct {
	DisplayName string `json:"display_name"`
}

// Author is one /authors search result.
type Author struct {
	ID                    string        `json:"id"`
	DisplayName           string        `json:"display_name"`
	Orcid                 string        `json:"orcid"`
	LastKnownInstitution  *Institution  `json:"last_known_institution"`
	LastKnownInstitutions []Institution `json:"last_known_institutions"`
}

// Concept is a research field tag on a work.
type Concept struct {
	DisplayName string `json:"display_name"`
}

// Work is one /works result.
type Work struct {
	Title                 string           `json:"title"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	Concepts              []Concept        `json:"concepts"`
}

type listResponse struct {
	Results []any `json:"results"`
}
