package transform

import (
	"context"
	"errors"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
	"github.com/mrz1836/go-template-sync/internal/logging"
)

// Rewriter runs a Chain over files in a worktree filesystem and writes back
// the ones whose content changed.
type Rewriter struct {
	fs     billy.Filesystem
	chain  Chain
	base   Context
	logger *logrus.Entry
}

// NewRewriter creates a Rewriter. base supplies the repository names and log
// configuration passed to every transformer; FilePath is set per file.
func NewRewriter(fs billy.Filesystem, chain Chain, base Context, logger *logrus.Logger) *Rewriter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Rewriter{
		fs:     fs,
		chain:  chain,
		base:   base,
		logger: logging.WithStandardFields(logger, base.LogConfig, logging.ComponentNames.Transform),
	}
}

// RewriteFiles transforms every listed file that exists as a regular file and
// returns the paths that were rewritten, in input order. Missing paths and
// directories are skipped. Binary content is left untouched by the chain.
func (r *Rewriter) RewriteFiles(ctx context.Context, files []string) ([]string, error) {
	rewritten := make([]string, 0, len(files))
	var totalBefore, totalAfter uint64

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return rewritten, err
		}

		info, err := r.fs.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return rewritten, appErrors.FileReadError(path, err)
		}
		if info.IsDir() {
			continue
		}

		content, err := util.ReadFile(r.fs, path)
		if err != nil {
			return rewritten, appErrors.FileReadError(path, err)
		}

		tctx := r.base
		tctx.FilePath = path
		out, err := r.chain.Transform(ctx, content, tctx)
		if err != nil {
			return rewritten, appErrors.WrapWithContext(err, "transform "+path)
		}
		if string(out) == string(content) {
			continue
		}

		if err := util.WriteFile(r.fs, path, out, info.Mode().Perm()); err != nil {
			return rewritten, appErrors.FileWriteError(path, err)
		}

		totalBefore += uint64(len(content))
		totalAfter += uint64(len(out))
		rewritten = append(rewritten, path)
		r.traceDiff(path, content, out)
	}

	if len(rewritten) > 0 {
		r.logger.WithFields(logrus.Fields{
			logging.StandardFields.FileCount:  len(rewritten),
			logging.StandardFields.SizeChange: humanize.Bytes(totalBefore) + " -> " + humanize.Bytes(totalAfter),
		}).Debug("Rewrote file contents")
	}

	return rewritten, nil
}

// traceDiff logs a unified diff of a rewrite when transform debugging is on.
func (r *Rewriter) traceDiff(path string, before, after []byte) {
	if r.base.LogConfig == nil || !r.base.LogConfig.Debug.Transform {
		return
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  2,
	})
	if err != nil {
		r.logger.WithError(err).WithField(logging.StandardFields.FilePath, path).Warn("Failed to render rewrite diff")
		return
	}

	r.logger.WithFields(logrus.Fields{
		logging.StandardFields.FilePath:    path,
		logging.StandardFields.ContentSize: humanize.Bytes(uint64(len(after))),
	}).Trace("Rewrite diff:\n" + diff)
}
