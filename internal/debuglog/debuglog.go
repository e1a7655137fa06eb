// Package debuglog provides structured JSONL logging for claude-viewer.
// Writes to {dataDir}/viewer.log at configurable debug levels.
package debuglog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileName is the log file created inside the data directory.
const FileName = "viewer.log"

// Logger writes structured log entries to the debug log file.
// A nil *Logger is valid and discards everything.
type Logger struct {
	dataDir    string
	debugLevel int
}

// New creates a Logger. Logging is a no-op if debugLevel < minLevel on each call.
func New(dataDir string, debugLevel int) *Logger {
	return &Logger{dataDir: dataDir, debugLevel: debugLevel}
}

// Path returns the log file location.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return filepath.Join(l.dataDir, FileName)
}

// LogListFailure logs a transcript directory that could not be enumerated.
func (l *Logger) LogListFailure(dir string, err error) {
	if !l.enabled(1) {
		return
	}

	l.write(map[string]interface{}{
		"event": "session_list_failed",
		"level": "warn",
		"dir":   dir,
		"error": err.Error(),
	})
}

// LogReadFailure logs a transcript that could not be read for display.
func (l *Logger) LogReadFailure(sessionID string, err error) {
	if !l.enabled(1) {
		return
	}

	l.write(map[string]interface{}{
		"event":      "session_read_failed",
		"level":      "warn",
		"session_id": sessionID,
		"error":      err.Error(),
	})
}

// LogSearchSkip logs a transcript skipped during a search scan.
func (l *Logger) LogSearchSkip(sessionID string, err error) {
	if !l.enabled(1) {
		return
	}

	l.write(map[string]interface{}{
		"event":      "search_read_failed",
		"level":      "warn",
		"session_id": sessionID,
		"error":      err.Error(),
	})
}

// LogWriteFailure logs an annotation document that could not be persisted.
func (l *Logger) LogWriteFailure(document string, sessionID string, err error) {
	if !l.enabled(1) {
		return
	}

	l.write(map[string]interface{}{
		"event":      "annotation_write_failed",
		"level":      "error",
		"document":   document,
		"session_id": sessionID,
		"error":      err.Error(),
	})
}

// RequestEntry is a compact representation of a served HTTP request.
type RequestEntry struct {
	RequestID  string
	Method     string
	Path       string
	Status     int
	DurationMs int64
	Phases     map[string]int64
}

// LogRequest logs one served HTTP request.
func (l *Logger) LogRequest(r RequestEntry) {
	if !l.enabled(2) {
		return
	}

	entry := map[string]interface{}{
		"event":       "request",
		"level":       "debug",
		"request_id":  r.RequestID,
		"method":      r.Method,
		"path":        r.Path,
		"status":      r.Status,
		"duration_ms": r.DurationMs,
	}
	if len(r.Phases) > 0 {
		entry["phases"] = r.Phases
	}

	l.write(entry)
}

func (l *Logger) enabled(minLevel int) bool {
	return l != nil && l.debugLevel >= minLevel
}

func (l *Logger) write(entry map[string]interface{}) {
	entry["timestamp"] = time.Now().Format(time.RFC3339)

	if err := os.MkdirAll(l.dataDir, 0755); err != nil {
		return
	}

	f, err := os.OpenFile(l.Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	f.WriteString(string(data) + "\n")
}
