// Package search scans every transcript for a keyword and extracts a short
// preview around the first hit in each file. There is no index: each call
// reads the whole transcript directory.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pbrown/claude-viewer/internal/debuglog"
	"github.com/pbrown/claude-viewer/internal/transcript"
)

// ContextChars is how many characters of context a snippet keeps on each
// side of the match.
const ContextChars = 40

// Ellipsis marks a snippet edge that was clipped.
const Ellipsis = "..."

// Result is one matching transcript.
type Result struct {
	ID      string `json:"id"`
	Snippet string `json:"snippet"`
}

// Engine runs keyword searches over a transcript store.
type Engine struct {
	store  *transcript.Store
	logger *debuglog.Logger
}

// NewEngine creates an engine over store. logger may be nil.
func NewEngine(store *transcript.Store, logger *debuglog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Search returns one result per transcript containing keyword, in directory
// order. A blank keyword matches nothing. Unreadable files are skipped.
func (e *Engine) Search(keyword string) []Result {
	results := []Result{}
	if strings.TrimSpace(keyword) == "" {
		return results
	}

	ids, err := e.store.IDs()
	if err != nil {
		e.logger.LogListFailure(e.store.Dir(), err)
		return results
	}

	needle := strings.ToLower(keyword)
	for _, id := range ids {
		data, err := e.store.ReadRaw(id)
		if err != nil {
			e.logger.LogSearchSkip(id, err)
			continue
		}

		content := string(data)
		if !strings.Contains(strings.ToLower(content), needle) {
			continue
		}

		// The file matched as a whole; the snippet may still be empty when
		// no single line's text carries the keyword (e.g. it spans a JSON escape).
		results = append(results, Result{ID: id, Snippet: firstSnippet(content, keyword)})
	}

	return results
}

// firstSnippet returns the snippet from the first line whose message text
// contains keyword, or "".
func firstSnippet(content, keyword string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := transcript.DecodeRecord(line)
		if err != nil || rec.Message == nil || rec.Message.Content.Kind == transcript.ContentNone {
			continue
		}

		if snippet, ok := Snippet(rec.Message.Content.Extract(), keyword); ok {
			return snippet
		}
	}
	return ""
}

// Snippet locates keyword in text case-insensitively and returns the match
// with up to ContextChars characters on either side. Clipped edges are
// marked with Ellipsis.
func Snippet(text, keyword string) (string, bool) {
	runes := []rune(text)
	idx, end, ok := matchRunes(runes, keyword)
	if !ok {
		return "", false
	}

	start := max(0, idx-ContextChars)
	end = min(len(runes), end+ContextChars)

	var b strings.Builder
	if start > 0 {
		b.WriteString(Ellipsis)
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString(Ellipsis)
	}
	return b.String(), true
}

// Match returns the character range [start, end) of the first
// case-insensitive occurrence of keyword in text.
func Match(text, keyword string) (start, end int, ok bool) {
	return matchRunes([]rune(text), keyword)
}

func matchRunes(runes []rune, keyword string) (int, int, bool) {
	if keyword == "" {
		return 0, 0, false
	}

	lowered := lowerRunes(runes)
	needle := lowerRunes([]rune(keyword))

	byteIdx := strings.Index(lowered, needle)
	if byteIdx < 0 {
		return 0, 0, false
	}
	start := utf8.RuneCountInString(lowered[:byteIdx])
	return start, start + utf8.RuneCountInString(needle), true
}

// lowerRunes lowercases rune by rune so character positions in the result
// line up with the input.
func lowerRunes(runes []rune) string {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = unicode.ToLower(r)
	}
	return string(out)
}
