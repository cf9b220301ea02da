// Package jira talks to the issue tracker: the REST session, the activity
// stream used as an idempotency check, and the GitLab webhook listener.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wahlandcase/glreplay/internal/config"
	"github.com/wahlandcase/glreplay/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

const (
	sessionPath      = "/rest/auth/1/session"
	activityPath     = "/activity"
	activityMaxItems = "1000"
	pushHookEvent    = "Push Hook"
	maxErrorBody     = 200
)

// StatusError is returned for non-2xx tracker responses
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}
	return fmt.Sprintf("jira %s %s: %d %s", e.Method, e.URL, e.StatusCode, body)
}

// Client holds one authenticated tracker session. Not safe for concurrent use.
type Client struct {
	baseURL       string
	listenerURL   string
	listenerToken string
	gitBaseURL    string
	username      string
	password      string
	basicUser     string
	basicPass     string
	http          *http.Client
	log           logrus.FieldLogger
}

// New creates a Client from the tracker and git config
func New(cfg *config.Config, log logrus.FieldLogger) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	basicUser, basicPass := cfg.BasicAuth()
	return &Client{
		baseURL:       strings.TrimRight(cfg.Jira.URL, "/"),
		listenerURL:   cfg.Jira.ListenerURL,
		listenerToken: cfg.Jira.ListenerToken,
		gitBaseURL:    cfg.Git.BaseURL,
		username:      cfg.Jira.Username,
		password:      cfg.Jira.Password,
		basicUser:     basicUser,
		basicPass:     basicPass,
		http:          &http.Client{Jar: jar},
		log:           log.WithField("component", "jira"),
	}, nil
}

// Login opens the REST session shared by every later call
func (c *Client) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"username": c.username, "password": c.password})
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, http.MethodPost, c.baseURL+sessionPath, body, nil); err != nil {
		return fmt.Errorf("opening jira session: %w", err)
	}
	c.log.WithField("user", c.username).Debug("jira session opened")
	return nil
}

// Logout closes the REST session
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodDelete, c.baseURL+sessionPath, nil, nil); err != nil {
		return fmt.Errorf("closing jira session: %w", err)
	}
	c.log.Debug("jira session closed")
	return nil
}

// IsKnown reports whether the issue's activity stream already mentions the commit.
// This is a plain substring search of the stream body for the commit's entry id;
// it can misfire on unrelated text containing that id.
func (c *Client) IsKnown(ctx context.Context, issueKey, commitHash, repoPath string) (bool, error) {
	query := url.Values{}
	query.Set("maxResults", activityMaxItems)
	query.Set("streams", "issue-key IS "+issueKey)

	body, err := c.do(ctx, http.MethodGet, c.baseURL+activityPath+"?"+query.Encode(), nil, nil)
	if err != nil {
		return false, fmt.Errorf("reading activity of %s: %w", issueKey, err)
	}
	return bytes.Contains(body, []byte(ActivityID(c.gitBaseURL, repoPath, commitHash))), nil
}

// PostPushEvent sends the push event to the GitLab webhook listener
func (c *Client) PostPushEvent(ctx context.Context, event *models.PushEvent) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(event); err != nil {
		return fmt.Errorf("encoding push event: %w", err)
	}

	headers := map[string]string{"X-Gitlab-Event": pushHookEvent}
	if c.listenerToken != "" {
		headers["X-Gitlab-Token"] = c.listenerToken
	}

	started := time.Now()
	if _, err := c.do(ctx, http.MethodPost, c.listenerURL, buf.Bytes(), headers); err != nil {
		return fmt.Errorf("posting push event: %w", err)
	}
	c.log.WithFields(logrus.Fields{
		"after":   event.After,
		"commits": event.TotalCommitsCount,
		"elapsed": time.Since(started).String(),
	}).Info("push event posted")
	return nil
}

// ActivityID is the entry id the tracker's activity stream records for a commit
func ActivityID(gitBaseURL, repoPath, commitHash string) string {
	return fmt.Sprintf("<id>https://%s/%s/commit/%s", gitBaseURL, repoPath, commitHash)
}

func (c *Client) do(ctx context.Context, method, u string, body []byte, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.basicUser, c.basicPass)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Method: method, URL: u, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
