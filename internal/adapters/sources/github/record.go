// Package github collects engineer candidates from the GitHub REST API.
package github

// User is the subset of /users/{login} used for extraction.
type User struct {
	Login   string `json:"login"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Blog    string `json:"blog"`
	Bio     string `json:"bio"`
}

// Repo is one entry of /users/{login}/repos.
type Repo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stargazers_count"`
}

type searchResponse struct {
	Items []struct {
		Login string `json:"login"`
	} `json:"items"`
}
