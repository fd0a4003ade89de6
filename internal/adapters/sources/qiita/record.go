// Package qiita collects engineer candidates from the Qiita v2 API by
// searching articles and following them back to their authors.
package qiita

// User is the subset of /users/{id} used for extraction.
type User struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Organization      string `json:"organization"`
	WebsiteURL        string `json:"website_url"`
	TwitterScreenName string `json:"twitter_screen_name"`
}

// Tag labels an article.
type Tag struct {
	Name string `json:"name"`
}

// Item is one article.
type Item struct {
	Title string `json:"title"`
	Tags  []Tag  `json:"tags"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}
