package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/wahlandcase/glreplay/internal/models"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// Repository is a local git object store
type Repository struct {
	path string
	repo *git.Repository
}

// Open opens the repository at path; path may be the work tree or the .git dir
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, &GitError{Command: "open " + path, Output: err.Error()}
	}
	return &Repository{path: path, repo: repo}, nil
}

// Path returns the location the repository was opened from
func (r *Repository) Path() string {
	return r.path
}

// Resolve resolves a commit-ish (hash, branch, "master~5") to a commit
func (r *Repository) Resolve(rev string) (*models.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, &RevisionNotFoundError{Revision: rev}
	}
	return r.Commit(hash.String())
}

// Commit loads a commit by its full hash
func (r *Repository) Commit(hash string) (*models.Commit, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, &RevisionNotFoundError{Revision: hash}
		}
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	return toCommit(c), nil
}

func toCommit(c *object.Commit) *models.Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	author := models.Signature{Name: c.Author.Name, Email: c.Author.Email}
	return models.NewCommit(c.Hash.String(), parents, c.Message, author, c.Author.When)
}

// Diff classifies the paths changed by a commit against its first parent.
// A root commit is diffed against the empty tree, so every path is added.
// Renames are detected and reported in none of the lists.
func (r *Repository) Diff(c *models.Commit) (models.FileChanges, error) {
	changes := models.FileChanges{
		Added:    []string{},
		Modified: []string{},
		Removed:  []string{},
	}

	commit, err := r.repo.CommitObject(plumbing.NewHash(c.Hash))
	if err != nil {
		return changes, fmt.Errorf("reading commit %s: %w", c.Hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return changes, fmt.Errorf("reading tree of %s: %w", c.Hash, err)
	}

	var parentTree *object.Tree
	if len(commit.ParentHashes) > 0 {
		parent, err := r.repo.CommitObject(commit.ParentHashes[0])
		if err != nil {
			return changes, fmt.Errorf("reading parent of %s: %w", c.Hash, err)
		}
		if parentTree, err = parent.Tree(); err != nil {
			return changes, fmt.Errorf("reading parent tree of %s: %w", c.Hash, err)
		}
	}

	diff, err := object.DiffTreeWithOptions(context.Background(), parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return changes, fmt.Errorf("diffing %s: %w", c.Hash, err)
	}

	for _, change := range diff {
		action, err := change.Action()
		if err != nil {
			return changes, err
		}
		switch action {
		case merkletrie.Insert:
			changes.Added = append(changes.Added, change.To.Name)
		case merkletrie.Modify:
			if change.From.Name != change.To.Name {
				continue
			}
			changes.Modified = append(changes.Modified, change.To.Name)
		case merkletrie.Delete:
			changes.Removed = append(changes.Removed, change.From.Name)
		}
	}

	return changes, nil
}

// PrimaryRef returns the full ref name of the primary branch
func (r *Repository) PrimaryRef() string {
	return plumbing.NewBranchReferenceName(DetectMainBranch(r.repo)).String()
}

// DetectMainBranch determines if the repo uses "main" or "master"
func DetectMainBranch(repo *git.Repository) string {
	refs, err := repo.References()
	if err != nil {
		return "master"
	}

	found := make(map[string]bool)
	refs.ForEach(func(ref *plumbing.Reference) error {
		found[ref.Name().String()] = true
		return nil
	})

	// Prefer remote refs, then local
	for _, name := range []string{
		"refs/remotes/origin/main",
		"refs/remotes/origin/master",
		"refs/heads/main",
		"refs/heads/master",
	} {
		if found[name] {
			return lastSegment(name)
		}
	}

	return "master"
}

func lastSegment(ref string) string {
	for i := len(ref) - 1; i >= 0; i-- {
		if ref[i] == '/' {
			return ref[i+1:]
		}
	}
	return ref
}

// GitError provides context for git failures
type GitError struct {
	Command string
	Output  string
}

func (e *GitError) Error() string {
	return "git " + e.Command + ": " + e.Output
}

// RevisionNotFoundError indicates a commit-ish did not resolve
type RevisionNotFoundError struct {
	Revision string
}

func (e *RevisionNotFoundError) Error() string {
	return "revision not found: " + e.Revision
}
