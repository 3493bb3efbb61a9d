package sync

import (
	"time"

	"github.com/mrz1836/go-template-sync/internal/git"
)

// Result describes what a run did
type Result struct {
	// LastSyncCommit is the checkpoint read at the start; empty on first sync
	LastSyncCommit string
	FirstSync      bool
	// BaseCommit is the diff base actually used; empty means the full tree
	BaseCommit   string
	LatestCommit string

	Changed   []string
	Deleted   []string
	Ignored   []string
	Rewritten []string

	RenameCommit     git.CommitResult
	MergeResult      git.MergeResult
	ChangeCommit     git.CommitResult
	DeleteCommit     git.CommitResult
	CheckpointCommit git.CommitResult

	DryRun    bool
	Pushed    bool
	PRNumber  int
	PRURL     string
	PRCreated bool
	PRUpdated bool

	Duration time.Duration
}

// HasPullRequest reports whether a pull request was created or updated
func (r *Result) HasPullRequest() bool {
	return r.PRCreated || r.PRUpdated
}
