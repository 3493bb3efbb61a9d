// Package gh provides GitHub API operations using the gh CLI
package gh

import "context"

// Client defines the GitHub operations needed to reconcile a sync pull request
type Client interface {
	// GetRepository returns repository metadata including its template source
	GetRepository(ctx context.Context, repo string) (*Repository, error)

	// CreatePR creates a new pull request
	CreatePR(ctx context.Context, repo string, req PRRequest) (*PR, error)

	// ListPRs lists open pull requests from head into base
	ListPRs(ctx context.Context, repo, head, base string) ([]PR, error)

	// UpdatePR updates an existing pull request
	UpdatePR(ctx context.Context, repo string, number int, update PRUpdate) error

	// AddLabels adds labels to a pull request
	AddLabels(ctx context.Context, repo string, number int, labels []string) error
}
