package git

import "strings"

// FileStatus is the single-letter status reported by `git diff --name-status`.
type FileStatus string

// File statuses. Renames never appear because diffs run with --no-renames.
const (
	StatusAdded       FileStatus = "A"
	StatusModified    FileStatus = "M"
	StatusDeleted     FileStatus = "D"
	StatusCopied      FileStatus = "C"
	StatusTypeChanged FileStatus = "T"
	StatusUnmerged    FileStatus = "U"
	StatusUnknown     FileStatus = "X"
)

// FileChange is one entry of a name-status diff.
type FileChange struct {
	Path   string     `json:"path"`
	Status FileStatus `json:"status"`
}

// IsDeletion reports whether the change removes the file.
func (f FileChange) IsDeletion() bool {
	return f.Status == StatusDeleted
}

// MergeResult is the outcome of a merge that did not fail outright.
type MergeResult int

const (
	// MergeClean means the merge applied without conflicts.
	MergeClean MergeResult = iota
	// MergeConflict means the merge stopped with conflicts; the working tree
	// holds whatever git could apply.
	MergeConflict
)

func (r MergeResult) String() string {
	if r == MergeConflict {
		return "conflict"
	}
	return "clean"
}

// CommitResult is the outcome of a commit attempt.
type CommitResult int

const (
	// CommitCreated means a new commit was recorded.
	CommitCreated CommitResult = iota
	// CommitNoChanges means nothing was staged so no commit was made.
	CommitNoChanges
)

func (r CommitResult) String() string {
	if r == CommitNoChanges {
		return "no-changes"
	}
	return "created"
}

// Identity is a commit author.
type Identity struct {
	Name  string
	Email string
}

// BotIdentity is the author of every commit the sync creates.
//
//nolint:gochecknoglobals // read-only identity
var BotIdentity = Identity{
	Name:  "github-actions[bot]",
	Email: "41898282+github-actions[bot]@users.noreply.github.com",
}

// parseNameStatus parses NUL-separated `git diff --name-status -z` output:
// status, path, status, path, ... Empty tokens are ignored.
func parseNameStatus(output string) []FileChange {
	tokens := splitNUL(output)
	changes := make([]FileChange, 0, len(tokens)/2)

	for i := 0; i+1 < len(tokens); i += 2 {
		status := tokens[i]
		changes = append(changes, FileChange{
			Path:   tokens[i+1],
			Status: normalizeStatus(status),
		})
	}

	return changes
}

// normalizeStatus maps a raw status (e.g. "M", "T", "C75") onto a FileStatus.
func normalizeStatus(raw string) FileStatus {
	if raw == "" {
		return StatusUnknown
	}
	switch FileStatus(raw[:1]) {
	case StatusAdded:
		return StatusAdded
	case StatusModified:
		return StatusModified
	case StatusDeleted:
		return StatusDeleted
	case StatusCopied:
		return StatusCopied
	case StatusTypeChanged:
		return StatusTypeChanged
	case StatusUnmerged:
		return StatusUnmerged
	default:
		return StatusUnknown
	}
}

// splitNUL splits NUL-terminated output, dropping empty entries.
func splitNUL(output string) []string {
	parts := strings.Split(output, "\x00")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitLines splits output into non-empty lines.
func splitLines(output string) []string {
	lines := strings.Split(output, "\n")
	result := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimRight(l, "\r"); l != "" {
			result = append(result, l)
		}
	}
	return result
}
