package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() PushEvent {
	return PushEvent{
		ObjectKind:  "push",
		Before:      ZeroHash,
		After:       "b2c4f5e8a1d3c6b9e0f7a2d5c8b1e4f7a0d3c6b9",
		Ref:         "refs/heads/master",
		CheckoutSHA: "b2c4f5e8a1d3c6b9e0f7a2d5c8b1e4f7a0d3c6b9",
		Repository: Repository{
			URL:        "git@gitlab.example.com:team/app.git",
			Homepage:   "https://gitlab.example.com/team/app",
			GitHTTPURL: "https://gitlab.example.com/team/app.git",
			GitSSHURL:  "git@gitlab.example.com:team/app.git",
		},
		ProjectID: 42,
		Commits: []PushCommit{{
			ID:        "b2c4f5e8a1d3c6b9e0f7a2d5c8b1e4f7a0d3c6b9",
			Message:   "PROJ-1: fix <login> & logout\n",
			Timestamp: "2024-03-01T10:00:00+01:00",
			URL:       "https://gitlab.example.com/team/app/commit/b2c4f5e8a1d3c6b9e0f7a2d5c8b1e4f7a0d3c6b9",
			Author:    PushAuthor{Name: "Dana", Email: "dana@example.com"},
			Added:     []string{"a.txt"},
			Modified:  []string{},
			Removed:   []string{},
		}},
		TotalCommitsCount: 1,
	}
}

func TestPushEvent_RoundTrip(t *testing.T) {
	event := sampleEvent()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded PushEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event, decoded)

	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestPushEvent_KeyOrder(t *testing.T) {
	data, err := json.Marshal(sampleEvent())
	require.NoError(t, err)
	body := string(data)

	keys := []string{
		`"object_kind"`, `"before"`, `"after"`, `"ref"`, `"checkout_sha"`,
		`"repository"`, `"url"`, `"homepage"`, `"description"`, `"git_http_url"`, `"git_ssh_url"`,
		`"project_id"`, `"commits"`, `"id"`, `"message"`, `"timestamp"`,
		`"author"`, `"name"`, `"email"`, `"added"`, `"modified"`, `"removed"`,
		`"total_commits_count"`,
	}
	last := -1
	for _, key := range keys {
		idx := strings.Index(body[last+1:], key)
		require.NotEqual(t, -1, idx, "key %s missing or out of order", key)
		last += idx + 1
	}
}

func TestPushEvent_EmptyListsEncodeAsArrays(t *testing.T) {
	data, err := json.Marshal(sampleEvent())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"modified":[]`)
	assert.Contains(t, string(data), `"removed":[]`)
}

func TestCommit_AuthorTZOffset(t *testing.T) {
	when := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	c := NewCommit("abc", nil, "PROJ-1: fix\n\nbody", Signature{Name: "Dana"}, when)

	assert.Equal(t, -3600, c.AuthorTZOffset())
	assert.Equal(t, "PROJ-1: fix", c.Summary)
	assert.True(t, c.IsRoot())
	assert.Equal(t, "abc", c.ShortHash())
}
