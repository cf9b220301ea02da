package models

import (
	"strings"
	"time"
)

// ZeroHash is the git null object id used as "before" when the range starts at a root commit
const ZeroHash = "0000000000000000000000000000000000000000"

// Signature identifies a commit author
type Signature struct {
	Name  string
	Email string
}

// Commit is a read-only view of a git commit
type Commit struct {
	// Hash is the full 40 character commit id
	Hash string
	// Parents are the parent commit ids in parent order (first parent first)
	Parents []string
	// Summary is the first line of Message
	Summary string
	// Message is the full commit message
	Message string
	// Author of the commit
	Author Signature
	// AuthoredAt is the author time in the author's own zone
	AuthoredAt time.Time
}

// NewCommit creates a Commit, deriving Summary from the message
func NewCommit(hash string, parents []string, message string, author Signature, authoredAt time.Time) *Commit {
	return &Commit{
		Hash:       hash,
		Parents:    parents,
		Summary:    Summary(message),
		Message:    message,
		Author:     author,
		AuthoredAt: authoredAt,
	}
}

// ShortHash returns the 7 character abbreviation of the hash
func (c *Commit) ShortHash() string {
	if len(c.Hash) < 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// IsRoot reports whether the commit has no parents
func (c *Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

// AuthorTZOffset returns the author offset in seconds using the git
// convention, where zones east of UTC are negative
func (c *Commit) AuthorTZOffset() int {
	_, east := c.AuthoredAt.Zone()
	return -east
}

// Summary returns the first line of a commit message
func Summary(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimRight(line, "\r")
}

// FileChanges are the paths touched by a commit relative to its first parent
type FileChanges struct {
	Added    []string
	Modified []string
	Removed  []string
}
