// Package record persists finished sessions as JSON transcripts.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/magic8ball/internal/oracle"
)

const (
	filePrefix = "8ball_session_"
	fileExt    = ".json"
)

// ErrNotFound is returned when a session transcript does not exist.
var ErrNotFound = errors.New("session not found")

// Record is the persisted snapshot of a finished session.
type Record struct {
	SessionID      string         `json:"session_id"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        time.Time      `json:"end_time"`
	TotalQuestions int            `json:"total_questions"`
	Stats          oracle.Stats   `json:"stats"`
	History        []oracle.Entry `json:"history"`
}

// New snapshots s, ending at end.
func New(s *oracle.Session, end time.Time) *Record {
	history := s.History()
	if history == nil {
		history = []oracle.Entry{}
	}
	return &Record{
		SessionID:      s.ID,
		StartTime:      s.StartedAt,
		EndTime:        end,
		TotalQuestions: len(history),
		Stats:          s.Stats(),
		History:        history,
	}
}

// FileName returns the transcript file name for a session ID.
func FileName(sessionID string) string {
	return filePrefix + sessionID + fileExt
}

// Store reads and writes transcripts in a single directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes rec to its transcript file and returns the path. Each call
// writes exactly one file.
func (s *Store) Save(rec *Record) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling session %s: %w", rec.SessionID, err)
	}

	path := filepath.Join(s.dir, FileName(rec.SessionID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing session to %s: %w", path, err)
	}
	return path, nil
}

// Load reads a transcript by session ID or by file path.
func (s *Store) Load(ref string) (*Record, error) {
	path := ref
	if !strings.HasSuffix(ref, fileExt) {
		path = filepath.Join(s.dir, FileName(ref))
	}
	return Read(path)
}

// Read parses the transcript at path.
func Read(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading session %s: %w", path, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}
	return &rec, nil
}

// Summary describes a transcript without its history.
type Summary struct {
	Path           string
	SessionID      string
	StartTime      time.Time
	TotalQuestions int
}

// List returns summaries of all transcripts in the store directory, oldest
// first. Unreadable files are skipped and returned as errors alongside the
// summaries that could be read.
func (s *Store) List() ([]Summary, []error, error) {
	matches, err := doublestar.Glob(os.DirFS(s.dir), filePrefix+"*"+fileExt)
	if err != nil {
		return nil, nil, fmt.Errorf("listing sessions in %s: %w", s.dir, err)
	}

	var (
		out  []Summary
		errs []error
	)
	for _, m := range matches {
		path := filepath.Join(s.dir, m)
		rec, err := Read(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, Summary{
			Path:           path,
			SessionID:      rec.SessionID,
			StartTime:      rec.StartTime,
			TotalQuestions: rec.TotalQuestions,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, errs, nil
}
