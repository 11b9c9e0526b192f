package notify

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"worldstats/ports"
)

// legacyLayouts are timestamp formats written by earlier versions of the sender
var legacyLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FileStateStore keeps the last successful send time in a small text file
type FileStateStore struct {
	path string
}

var _ ports.SendStateStore = (*FileStateStore)(nil)

// NewFileStateStore creates a store backed by path
func NewFileStateStore(path string) *FileStateStore {
	return &FileStateStore{path: path}
}

// LastSent returns the recorded time. A missing or unparseable file reports ok=false.
func (s *FileStateStore) LastSent() (time.Time, bool) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return time.Time{}, false
	}
	text := strings.TrimSpace(string(raw))
	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return t, true
	}
	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MarkSent records t, replacing any previous value
func (s *FileStateStore) MarkSent(t time.Time) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, []byte(t.Format(time.RFC3339Nano)), 0o644)
}
