package sync

import (
	"context"

	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
	"github.com/mrz1836/go-template-sync/internal/git"
	"github.com/mrz1836/go-template-sync/internal/logging"
)

// ChangeSet lists the template files to bring over and the ones to remove
type ChangeSet struct {
	Changed []string
	Deleted []string
}

// Empty reports whether there is nothing to sync
func (c *ChangeSet) Empty() bool {
	return len(c.Changed) == 0 && len(c.Deleted) == 0
}

// ChangeSetResolver computes the files that differ between the last
// synchronized template commit and the checked-out template HEAD.
type ChangeSetResolver struct {
	git    git.Client
	logger *logrus.Entry
}

// NewChangeSetResolver creates a resolver over client
func NewChangeSetResolver(client git.Client, logger *logrus.Logger) *ChangeSetResolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ChangeSetResolver{
		git:    client,
		logger: logger.WithField(logging.StandardFields.Component, logging.ComponentNames.Sync),
	}
}

// ResolveChangeSet returns every tracked file as changed when lastSyncCommit
// is empty. Otherwise deletions go to Deleted and every other status to
// Changed, in git's output order. Renames are not detected.
func (r *ChangeSetResolver) ResolveChangeSet(ctx context.Context, lastSyncCommit string) (*ChangeSet, error) {
	set := &ChangeSet{
		Changed: make([]string, 0),
		Deleted: make([]string, 0),
	}

	if lastSyncCommit == "" {
		files, err := r.git.ListFiles(ctx)
		if err != nil {
			return nil, appErrors.WrapWithContext(err, "list tracked files")
		}
		for _, f := range files {
			if f != "" {
				set.Changed = append(set.Changed, f)
			}
		}
		r.logger.WithField(logging.StandardFields.FileCount, len(set.Changed)).Debug("Full tree change set")
		return set, nil
	}

	changes, err := r.git.ListChangedFiles(ctx, lastSyncCommit)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "list changed files since "+lastSyncCommit)
	}

	for _, c := range changes {
		if c.Path == "" {
			continue
		}
		if c.IsDeletion() {
			set.Deleted = append(set.Deleted, c.Path)
		} else {
			set.Changed = append(set.Changed, c.Path)
		}
	}

	r.logger.WithFields(logrus.Fields{
		logging.StandardFields.CommitSHA: lastSyncCommit,
		"changed":                        len(set.Changed),
		"deleted":                        len(set.Deleted),
	}).Debug("Incremental change set")

	return set, nil
}
