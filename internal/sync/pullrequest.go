package sync

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-template-sync/internal/gh"
	"github.com/mrz1836/go-template-sync/internal/logging"
)

// reconcilePullRequest opens or updates the sync pull request when the PR
// branch is ahead of its base. Lookup by head and base keeps it idempotent
// across retries.
func (r *run) reconcilePullRequest(ctx context.Context) error {
	base := remoteBase(r.cfg.PRBase)

	ahead, err := r.git.CountCommitsBetween(ctx, base, r.cfg.PRBranch)
	if err != nil {
		return err
	}

	log := r.log.WithFields(logrus.Fields{
		logging.StandardFields.BranchName: r.cfg.PRBranch,
		logging.StandardFields.BaseBranch: r.cfg.PRBase,
	})

	if ahead == 0 {
		log.Info("No commits ahead of base; no pull request needed")
		return nil
	}

	prs, err := r.gh.ListPRs(ctx, r.cfg.Repository, r.cfg.PRBranch, r.cfg.PRBase)
	if err != nil {
		return err
	}

	if len(prs) > 0 {
		pr := prs[0]
		log.WithField(logging.StandardFields.PRNumber, pr.Number).Info("Updating existing pull request")

		if err := r.gh.UpdatePR(ctx, r.cfg.Repository, pr.Number, gh.PRUpdate{
			Title: r.cfg.PRTitle,
			Base:  r.cfg.PRBase,
		}); err != nil {
			return err
		}
		r.result.PRNumber = pr.Number
		r.result.PRURL = pr.HTMLURL
		r.result.PRUpdated = true
	} else {
		log.Info("Creating pull request")

		pr, err := r.gh.CreatePR(ctx, r.cfg.Repository, gh.PRRequest{
			Title: r.cfg.PRTitle,
			Body:  r.cfg.PRBody,
			Head:  r.cfg.PRBranch,
			Base:  r.cfg.PRBase,
		})
		if err != nil {
			return err
		}
		r.result.PRNumber = pr.Number
		r.result.PRURL = pr.HTMLURL
		r.result.PRCreated = true
	}

	if len(r.cfg.PRLabels) > 0 {
		if err := r.gh.AddLabels(ctx, r.cfg.Repository, r.result.PRNumber, r.cfg.PRLabels); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{
		logging.StandardFields.PRNumber: r.result.PRNumber,
		"ahead":                         ahead,
	}).Info("Pull request ready")
	return nil
}
