// Package history keeps the scripts each user generated successfully.
package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"narrator/pkg/generator"
	"narrator/pkg/utils"
)

// MaxPerUser caps how many scripts are kept for one user.
const MaxPerUser = 50

var (
	ErrFailureText = errors.New("refusing to store a failure message")
	ErrEmptyScript = errors.New("empty script")
)

type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model,omitempty"`
	Template  string    `json:"template"`
	Language  string    `json:"language"`
	Minutes   int       `json:"minutes"`
	Input     string    `json:"input"`
	Script    string    `json:"script"`
	Chars     int       `json:"chars"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is a JSON file of entries per user, newest first.
type Store struct {
	path    string
	mu      sync.RWMutex
	entries map[string][]Entry
}

// Open loads the history file in dir, starting empty when it does not exist.
func Open(dir string) (*Store, error) {
	s := &Store{
		path:    filepath.Join(dir, "History.json"),
		entries: make(map[string][]Entry),
	}
	loaded, err := utils.Load[map[string][]Entry](s.path)
	switch {
	case err == nil && loaded != nil:
		s.entries = loaded
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return nil, err
	}
	return s, nil
}

// Add stores e for its user and returns it with ID and timestamp set.
func (s *Store) Add(e Entry) (Entry, error) {
	if generator.IsFailureText(e.Script) {
		return Entry{}, ErrFailureText
	}
	if strings.TrimSpace(e.Script) == "" {
		return Entry{}, ErrEmptyScript
	}
	if e.ID == "" {
		e.ID = ksuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.Chars == 0 {
		e.Chars = len([]rune(e.Script))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := append([]Entry{e}, s.entries[e.UserID]...)
	if len(list) > MaxPerUser {
		list = list[:MaxPerUser]
	}
	s.entries[e.UserID] = list

	if err := utils.Save(s.path, s.entries); err != nil {
		log.Warn("failed saving history", "error", err)
		return e, err
	}
	return e, nil
}

// List returns up to limit entries of a user, newest first. limit <= 0 returns all.
func (s *Store) List(userID string, limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.entries[userID]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return append([]Entry(nil), list...)
}
