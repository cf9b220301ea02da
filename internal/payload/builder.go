// Package payload assembles the synthetic GitLab push event from the
// commits a replay found.
package payload

import (
	"errors"
	"fmt"

	"github.com/wahlandcase/glreplay/internal/models"
)

const (
	objectKindPush  = "push"
	timestampLayout = "2006-01-02T15:04:05"
)

var (
	// ErrNoCommits is returned when there is nothing to build an event from
	ErrNoCommits = errors.New("no commits to replay")
	// ErrUnsupportedOffset is returned for author offsets outside offsetSuffixes
	ErrUnsupportedOffset = errors.New("unsupported author timezone offset")
)

// offsetSuffixes maps git author offsets (seconds, east of UTC negative) to
// the suffix appended to the UTC timestamp. Only these three are accepted.
var offsetSuffixes = map[int]string{
	0:     "+00:00",
	-3600: "+01:00",
	-7200: "+02:00",
}

// Differ computes a commit's changes against its first parent
type Differ interface {
	Diff(c *models.Commit) (models.FileChanges, error)
}

// Builder builds push events for one remote git host
type Builder struct {
	differ     Differ
	gitBaseURL string
	ref        string
}

// NewBuilder creates a Builder; ref is the full branch ref put in every event
func NewBuilder(differ Differ, gitBaseURL, ref string) *Builder {
	return &Builder{differ: differ, gitBaseURL: gitBaseURL, ref: ref}
}

// Build creates the push event for commits ordered newest first
func (b *Builder) Build(commits []*models.Commit, repoPath string, projectID int64) (*models.PushEvent, error) {
	if len(commits) == 0 {
		return nil, ErrNoCommits
	}

	newest := commits[0]
	oldest := commits[len(commits)-1]

	before := models.ZeroHash
	if !oldest.IsRoot() {
		before = oldest.Parents[0]
	}

	repo := RepositoryFor(b.gitBaseURL, repoPath)
	event := &models.PushEvent{
		ObjectKind:        objectKindPush,
		Before:            before,
		After:             newest.Hash,
		Ref:               b.ref,
		CheckoutSHA:       newest.Hash,
		Repository:        repo,
		ProjectID:         projectID,
		Commits:           make([]models.PushCommit, 0, len(commits)),
		TotalCommitsCount: len(commits),
	}

	for _, c := range commits {
		record, err := b.commitRecord(c, repo.Homepage)
		if err != nil {
			return nil, err
		}
		event.Commits = append(event.Commits, record)
	}

	return event, nil
}

func (b *Builder) commitRecord(c *models.Commit, homepage string) (models.PushCommit, error) {
	timestamp, err := Timestamp(c)
	if err != nil {
		return models.PushCommit{}, err
	}

	changes, err := b.differ.Diff(c)
	if err != nil {
		return models.PushCommit{}, fmt.Errorf("diffing %s: %w", c.ShortHash(), err)
	}

	return models.PushCommit{
		ID:        c.Hash,
		Message:   c.Message,
		Timestamp: timestamp,
		URL:       homepage + "/commit/" + c.Hash,
		Author:    models.PushAuthor{Name: c.Author.Name, Email: c.Author.Email},
		Added:     nonNil(changes.Added),
		Modified:  nonNil(changes.Modified),
		Removed:   nonNil(changes.Removed),
	}, nil
}

// Timestamp renders the author time as UTC wall clock followed by the
// suffix for the author's offset
func Timestamp(c *models.Commit) (string, error) {
	offset := c.AuthorTZOffset()
	suffix, ok := offsetSuffixes[offset]
	if !ok {
		return "", fmt.Errorf("%w: %d seconds on commit %s", ErrUnsupportedOffset, offset, c.Hash)
	}
	return c.AuthoredAt.UTC().Format(timestampLayout) + suffix, nil
}

// RepositoryFor derives the repository descriptor for repoPath on gitBaseURL
func RepositoryFor(gitBaseURL, repoPath string) models.Repository {
	ssh := fmt.Sprintf("git@%s:%s.git", gitBaseURL, repoPath)
	homepage := fmt.Sprintf("https://%s/%s", gitBaseURL, repoPath)
	return models.Repository{
		URL:         ssh,
		Homepage:    homepage,
		Description: "",
		GitHTTPURL:  homepage + ".git",
		GitSSHURL:   ssh,
	}
}

func nonNil(paths []string) []string {
	if paths == nil {
		return []string{}
	}
	return paths
}
