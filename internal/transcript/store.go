// Package transcript reads conversation transcripts stored as one JSONL
// file per session and projects them into display-ready messages.
package transcript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pbrown/claude-viewer/internal/debuglog"
)

// Ext is the file extension of transcript files.
const Ext = ".jsonl"

// ErrInvalidID is returned for ids that are empty, "." or "..", or contain a
// path separator.
var ErrInvalidID = errors.New("invalid session id")

// Transcript describes one transcript file.
type Transcript struct {
	ID         string
	ModifiedAt time.Time
	SizeBytes  int64
}

// Session is a parsed transcript.
type Session struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
}

// Store reads transcripts from a single directory. It never writes to it.
type Store struct {
	dir    string
	logger *debuglog.Logger
}

// NewStore creates a store over dir. logger may be nil.
func NewStore(dir string, logger *debuglog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the transcript directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing id.
func (s *Store) Path(id string) (string, error) {
	if !validID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir, id+Ext), nil
}

func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

// IDs returns transcript ids in directory enumeration order.
func (s *Store) IDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, Ext) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, Ext))
	}
	return ids, nil
}

// List returns every transcript, most recently modified first.
// A directory that cannot be read yields an empty list.
func (s *Store) List() []Transcript {
	ids, err := s.IDs()
	if err != nil {
		s.logger.LogListFailure(s.dir, err)
		return []Transcript{}
	}

	transcripts := make([]Transcript, 0, len(ids))
	for _, id := range ids {
		info, err := os.Stat(filepath.Join(s.dir, id+Ext))
		if err != nil {
			// removed between ReadDir and Stat
			continue
		}
		transcripts = append(transcripts, Transcript{
			ID:         id,
			ModifiedAt: info.ModTime(),
			SizeBytes:  info.Size(),
		})
	}

	sort.SliceStable(transcripts, func(i, j int) bool {
		return transcripts[i].ModifiedAt.After(transcripts[j].ModifiedAt)
	})

	return transcripts
}

// ReadRaw returns the full content of a transcript file.
func (s *Store) ReadRaw(id string) ([]byte, error) {
	path, err := s.Path(id)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Exists reports whether id names a readable transcript file.
func (s *Store) Exists(id string) bool {
	path, err := s.Path(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Parse reads and projects one transcript. Read failures yield a session
// with no messages.
func (s *Store) Parse(id string) Session {
	session := Session{ID: id, Name: id, Messages: []Message{}}

	data, err := s.ReadRaw(id)
	if err != nil {
		s.logger.LogReadFailure(id, err)
		return session
	}

	session.Messages = ParseBytes(data)
	return session
}
