package git

import (
	"context"
	"regexp"

	"github.com/wahlandcase/glreplay/internal/models"

	"github.com/sirupsen/logrus"
)

// CommitSource loads commits by hash
type CommitSource interface {
	Commit(hash string) (*models.Commit, error)
}

// ActivityOracle reports whether a commit is already recorded against an issue
type ActivityOracle interface {
	IsKnown(ctx context.Context, issueKey, commitHash, repoPath string) (bool, error)
}

// Walker collects the commits between two revisions that reference an issue
// and are not yet known to the oracle
type Walker struct {
	source        CommitSource
	oracle        ActivityOracle
	issueKeyRegex *regexp.Regexp
	repoPath      string
	log           logrus.FieldLogger
}

// NewWalker creates a Walker; repoPath is the remote "owner/name" passed to the oracle
func NewWalker(source CommitSource, oracle ActivityOracle, issueKeyRegex *regexp.Regexp, repoPath string, log logrus.FieldLogger) *Walker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Walker{
		source:        source,
		oracle:        oracle,
		issueKeyRegex: issueKeyRegex,
		repoPath:      repoPath,
		log:           log.WithField("component", "walker"),
	}
}

// Walk traverses parent edges depth-first from end, in parent order, and
// returns eligible commits closest to end first. Each commit is evaluated at
// most once no matter how many merge paths reach it. Reaching start stops
// descent along that path only.
func (w *Walker) Walk(ctx context.Context, end, start *models.Commit) ([]*models.Commit, error) {
	visited := make(map[string]bool)
	var eligible []*models.Commit

	// Explicit stack; parents are pushed in reverse so the first parent is
	// explored first, matching recursive descent order.
	stack := []*models.Commit{end}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		commit := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[commit.Hash] {
			continue
		}

		emit, err := w.evaluate(ctx, commit)
		if err != nil {
			return nil, err
		}
		if emit {
			eligible = append(eligible, commit)
		}
		visited[commit.Hash] = true

		if commit.Hash == start.Hash {
			w.log.WithField("commit", commit.Hash).Debug("reached start commit")
			continue
		}

		for i := len(commit.Parents) - 1; i >= 0; i-- {
			parentHash := commit.Parents[i]
			if visited[parentHash] {
				continue
			}
			parent, err := w.source.Commit(parentHash)
			if err != nil {
				return nil, err
			}
			stack = append(stack, parent)
		}
	}

	return eligible, nil
}

func (w *Walker) evaluate(ctx context.Context, commit *models.Commit) (bool, error) {
	log := w.log.WithField("commit", commit.Hash)

	issueKey, ok := ExtractIssueKey(commit.Summary, w.issueKeyRegex)
	if !ok {
		log.Debugf("skipping commit: %q", commit.Summary)
		return false, nil
	}

	log = log.WithField("issue", issueKey)
	log.Debugf("evaluating: %q", commit.Summary)

	known, err := w.oracle.IsKnown(ctx, issueKey, commit.Hash, w.repoPath)
	if err != nil {
		return false, err
	}
	if known {
		log.Info("found commit in activity stream")
		return false, nil
	}

	log.Info("commit not found in activity stream")
	return true, nil
}
