package gh

import "time"

// Repository represents a GitHub repository
type Repository struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	DefaultBranch string    `json:"default_branch"`
	CreatedAt     time.Time `json:"created_at"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
	// TemplateRepository is set when the repository was generated from a template
	TemplateRepository *Repository `json:"template_repository,omitempty"`
}

// PR represents a pull request
type PR struct {
	Number  int    `json:"number"`
	State   string `json:"state"` // open, closed
	Title   string `json:"title"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
	Head    struct {
		Ref string `json:"ref"` // branch name
		SHA string `json:"sha"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"` // target branch
		SHA string `json:"sha"`
	} `json:"base"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

// PRRequest represents a request to create a pull request
type PRRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Head  string `json:"head"` // source branch
	Base  string `json:"base"` // target branch
}

// PRUpdate represents an update to an existing pull request. The head
// branch of a pull request cannot be changed through the API.
type PRUpdate struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	Base  string `json:"base,omitempty"`
}
