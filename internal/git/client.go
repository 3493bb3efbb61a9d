// Package git drives the git binary for the synchronization engine.
//
// Every command runs inside a single working copy (`git -C <repoPath>`) with
// terminal prompts disabled.
package git

import (
	"context"
	"time"
)

// Client defines the git operations used by a sync run.
type Client interface {
	// RepoPath returns the working copy the client operates on
	RepoPath() string

	// FetchRemote adds (or re-points) remote to the GitHub repository
	// ownerRepo and fetches all remotes
	FetchRemote(ctx context.Context, ownerRepo, remote string) error

	// CreateBranch checks out name starting at base, resetting name if it
	// already exists
	CreateBranch(ctx context.Context, name, base string) error

	// Merge merges branch into HEAD preferring their side, allowing
	// unrelated histories and leaving the result uncommitted
	Merge(ctx context.Context, branch string) (MergeResult, error)

	// ListFiles returns every tracked file
	ListFiles(ctx context.Context) ([]string, error)

	// ListChangedFiles returns the changes between fromCommit and HEAD
	ListChangedFiles(ctx context.Context, fromCommit string) ([]FileChange, error)

	// GetLatestCommit returns the commit id of HEAD
	GetLatestCommit(ctx context.Context) (string, error)

	// GetCommitBefore returns the newest commit reachable from HEAD that was
	// committed before t, or "" when there is none
	GetCommitBefore(ctx context.Context, t time.Time) (string, error)

	// Commit stages files (all changes when files is nil) and commits them
	// as BotIdentity. Paths that cannot be staged are skipped.
	Commit(ctx context.Context, files []string, message string) (CommitResult, error)

	// Push pushes HEAD to origin
	Push(ctx context.Context, force bool) error

	// Reset discards working tree changes and untracked files
	Reset(ctx context.Context) error

	// Unstage clears the index (and any in-progress merge state)
	Unstage(ctx context.Context) error

	// CountCommitsBetween counts non-merge commits in base..head
	CountCommitsBetween(ctx context.Context, base, head string) (int, error)

	// GetConfig returns the value of key matching valueRegex, or "" when unset
	GetConfig(ctx context.Context, key, valueRegex string) (string, error)

	// SetConfig sets key to value in the repository config
	SetConfig(ctx context.Context, key, value string) error

	// UnsetConfig removes every value of key matching valueRegex. It
	// returns false when nothing was set.
	UnsetConfig(ctx context.Context, key, valueRegex string) (bool, error)
}
