// Package pathplan plans and executes the on-disk renames that follow an
// identifier conversion: directories first, outermost to innermost, then
// the file itself, so renaming a directory never orphans its children.
package pathplan

import (
	"context"
	"errors"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
	"github.com/mrz1836/go-template-sync/internal/logging"
	"github.com/mrz1836/go-template-sync/internal/transform"
)

// DirsFromFiles returns the rename plan for files: for each file, its
// not-yet-seen ancestor directories outermost first, then the file.
//
// Every directory appears once and before anything below it. Every file
// appears once, in input order.
func DirsFromFiles(files []string) []string {
	plan := make([]string, 0, len(files)*2)
	seenDirs := make(map[string]struct{})
	seenFiles := make(map[string]struct{}, len(files))

	for _, file := range files {
		if file == "" {
			continue
		}

		var pending []string
		for dir := path.Dir(file); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if _, ok := seenDirs[dir]; ok {
				break
			}
			seenDirs[dir] = struct{}{}
			pending = append(pending, dir)
		}
		for i := len(pending) - 1; i >= 0; i-- {
			plan = append(plan, pending[i])
		}

		if _, ok := seenFiles[file]; ok {
			continue
		}
		seenFiles[file] = struct{}{}
		plan = append(plan, file)
	}

	return plan
}

// Renamer applies a conversion set to path names on a worktree filesystem.
type Renamer struct {
	fs          billy.Filesystem
	conversions transform.Conversions
	logger      *logrus.Entry
}

// NewRenamer creates a Renamer over fs.
func NewRenamer(fs billy.Filesystem, conversions transform.Conversions, logger *logrus.Logger) *Renamer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Renamer{
		fs:          fs,
		conversions: conversions,
		logger:      logger.WithField(logging.StandardFields.Component, logging.ComponentNames.Transform),
	}
}

// Rename executes plan. Existence is checked for every entry before any
// rename happens; entries missing at that point are skipped. For each
// remaining entry whose base name converts to something new, the entry is
// moved within its already-converted parent directory.
func (r *Renamer) Rename(ctx context.Context, plan []string) error {
	existing := make([]string, 0, len(plan))
	for _, entry := range plan {
		if _, err := r.fs.Stat(entry); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return appErrors.FileReadError(entry, err)
		}
		existing = append(existing, entry)
	}

	for _, entry := range existing {
		if err := ctx.Err(); err != nil {
			return err
		}

		fromBase := path.Base(entry)
		toBase := transform.Convert(r.conversions, fromBase)
		if toBase == fromBase {
			continue
		}

		toDir := transform.Convert(r.conversions, path.Dir(entry))
		from := path.Join(toDir, fromBase)
		to := path.Join(toDir, toBase)

		if err := r.fs.Rename(from, to); err != nil {
			return appErrors.FileRenameError(from, to, err)
		}

		r.logger.WithFields(logrus.Fields{
			logging.StandardFields.Operation: logging.OperationTypes.PathRename,
			logging.StandardFields.FilePath:  to,
			"from":                           from,
		}).Debug("Renamed path")
	}

	return nil
}

// RenameFiles plans and executes the renames for files and returns the
// converted path of every input file, in input order.
func (r *Renamer) RenameFiles(ctx context.Context, files []string) ([]string, error) {
	if err := r.Rename(ctx, DirsFromFiles(files)); err != nil {
		return nil, err
	}
	return ConvertPaths(r.conversions, files), nil
}

// ConvertPaths applies conversions to every path.
func ConvertPaths(conversions transform.Conversions, files []string) []string {
	converted := make([]string, len(files))
	for i, file := range files {
		converted[i] = transform.Convert(conversions, file)
	}
	return converted
}

// RenameFiles is a convenience wrapper around Renamer.RenameFiles.
func RenameFiles(ctx context.Context, fs billy.Filesystem, conversions transform.Conversions, files []string) ([]string, error) {
	return NewRenamer(fs, conversions, nil).RenameFiles(ctx, files)
}
