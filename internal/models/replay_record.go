package models

import "time"

// ReplayRecord is one transmitted push event, kept in the local replay history
type ReplayRecord struct {
	RepoPath  string    `json:"repo_path"`
	ProjectID int64     `json:"project_id"`
	Before    string    `json:"before"`
	After     string    `json:"after"`
	Commits   int       `json:"commits"`
	PostedAt  time.Time `json:"posted_at"`
}

// NewReplayRecord creates a ReplayRecord for a push event posted now
func NewReplayRecord(repoPath string, event *PushEvent, postedAt time.Time) ReplayRecord {
	return ReplayRecord{
		RepoPath:  repoPath,
		ProjectID: event.ProjectID,
		Before:    event.Before,
		After:     event.After,
		Commits:   event.TotalCommitsCount,
		PostedAt:  postedAt,
	}
}
