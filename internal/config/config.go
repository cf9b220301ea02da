package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPath overrides the config file location
const EnvPath = "GLREPLAY_CONFIG"

type Config struct {
	Jira    JiraConfig    `toml:"jira"`
	Git     GitConfig     `toml:"git"`
	Tickets TicketsConfig `toml:"tickets"`

	// Compiled from Tickets.Pattern (not serialized)
	issueKeyRegex *regexp.Regexp
	path          string
}

type JiraConfig struct {
	URL               string `toml:"url"`
	Username          string `toml:"username"`
	Password          string `toml:"password"`
	BasicAuthUsername string `toml:"basic_auth_username"`
	BasicAuthPassword string `toml:"basic_auth_password"`
	ListenerURL       string `toml:"listener_url"`
	ListenerToken     string `toml:"listener_token"`
}

type GitConfig struct {
	BaseURL string `toml:"base_url"`
	Ref     string `toml:"ref"`
}

type TicketsConfig struct {
	Pattern string `toml:"pattern"`
}

// MissingError reports required configuration keys that are not set
type MissingError struct {
	Path string
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing configuration %s in %s", strings.Join(e.Keys, ", "), e.Path)
}

func DefaultConfig() *Config {
	return &Config{
		Tickets: TicketsConfig{
			Pattern: "[A-Z]+-[0-9]+",
		},
	}
}

// Path returns the config file location: $GLREPLAY_CONFIG or glreplay.toml in the user config dir
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "glreplay.toml"), nil
}

// Load reads and validates the config at path, or at Path() when path is empty.
// A missing file gets a template written next to it and fails with MissingError.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, fmt.Errorf("locating config: %w", err)
		}
		path = p
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_ = cfg.Save() // Best effort template
			return nil, cfg.Validate()
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.compileRegex(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every required key is set
func (c *Config) Validate() error {
	var missing []string
	required := []struct {
		key   string
		value string
	}{
		{"jira.url", c.Jira.URL},
		{"jira.username", c.Jira.Username},
		{"jira.password", c.Jira.Password},
		{"jira.listener_url", c.Jira.ListenerURL},
		{"git.base_url", c.Git.BaseURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Path: c.path, Keys: missing}
	}
	return nil
}

func (c *Config) compileRegex() error {
	pattern := c.Tickets.Pattern
	if pattern == "" {
		pattern = DefaultConfig().Tickets.Pattern
	}
	// Key must open the summary and be followed by a colon
	re, err := regexp.Compile("^(" + pattern + "):")
	if err != nil {
		return fmt.Errorf("invalid tickets.pattern %q: %w", c.Tickets.Pattern, err)
	}
	c.issueKeyRegex = re
	return nil
}

// IssueKeyRegex returns the compiled issue key regex; group 1 is the key
func (c *Config) IssueKeyRegex() *regexp.Regexp {
	if c.issueKeyRegex == nil {
		_ = c.compileRegex()
	}
	return c.issueKeyRegex
}

// BasicAuth returns the credentials sent with every tracker request,
// falling back to the session credentials
func (c *Config) BasicAuth() (string, string) {
	user, pass := c.Jira.BasicAuthUsername, c.Jira.BasicAuthPassword
	if user == "" {
		user, pass = c.Jira.Username, c.Jira.Password
	}
	return user, pass
}

// FilePath is where this config was loaded from
func (c *Config) FilePath() string {
	return c.path
}

func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
