package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/wahlandcase/glreplay/internal/models"
)

const (
	historyFile   = "glreplay-history.json"
	historyMaxAge = 30 * 24 * time.Hour
)

// History is the local record of transmitted push events
type History struct {
	path string
	now  func() time.Time
}

// NewHistory keeps the history file in dir, next to the config file
func NewHistory(dir string) *History {
	return &History{path: filepath.Join(dir, historyFile), now: time.Now}
}

// Load returns the entries younger than historyMaxAge, pruning the file if
// anything expired
func (h *History) Load() ([]models.ReplayRecord, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []models.ReplayRecord
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	cutoff := h.now().Add(-historyMaxAge)
	var valid []models.ReplayRecord
	for _, e := range entries {
		if e.PostedAt.After(cutoff) {
			valid = append(valid, e)
		}
	}

	// Rewrite file if we pruned anything
	if len(valid) != len(entries) {
		if err := h.save(valid); err != nil {
			return nil, err
		}
	}

	return valid, nil
}

// Append adds a record and persists the history
func (h *History) Append(record models.ReplayRecord) error {
	entries, err := h.Load()
	if err != nil {
		return err
	}
	return h.save(append(entries, record))
}

func (h *History) save(entries []models.ReplayRecord) error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(h.path, data, 0644)
}
