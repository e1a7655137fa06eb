package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pbrown/claude-viewer/internal/search"
	"github.com/pbrown/claude-viewer/internal/transcript"
)

func Test_Session_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Session("My Chat", transcript.Session{
		ID:   "abc",
		Name: "abc",
		Messages: []transcript.Message{
			{Role: "user", Content: "hello there", Timestamp: json.RawMessage(`"2025-01-01T00:00:00Z"`)},
			{Role: "assistant", Content: "general kenobi"},
		},
	})

	out := buf.String()
	for _, want := range []string{"My Chat", "abc", "user 2025-01-01T00:00:00Z", "hello there", "assistant", "general kenobi"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "My Chat\nabc\n") {
		t.Errorf("expected unstyled title block, got:\n%s", out)
	}
}

func Test_Session_NoMessages(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Session("abc", transcript.Session{ID: "abc", Name: "abc", Messages: []transcript.Message{}})

	if !strings.Contains(buf.String(), "No messages.") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}
}

func Test_List(t *testing.T) {
	var buf bytes.Buffer
	mod := time.Date(2025, 3, 4, 5, 6, 0, 0, time.Local)

	New(&buf).List([]ListItem{
		{Transcript: transcript.Transcript{ID: "id1", ModifiedAt: mod, SizeBytes: 2048}, Name: "Pretty", Archived: true},
		{Transcript: transcript.Transcript{ID: "id2", ModifiedAt: mod, SizeBytes: 12}, Name: "id2"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "Pretty  id1  2025-03-04 05:06  2.0 KiB [archived]" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if lines[1] != "id2  id2  2025-03-04 05:06  12 B" {
		t.Errorf("unexpected second line %q", lines[1])
	}
}

func Test_List_Empty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).List(nil)

	if strings.TrimSpace(buf.String()) != "No sessions found." {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func Test_SearchResults(t *testing.T) {
	var buf bytes.Buffer
	names := map[string]string{"a": "Alpha"}
	displayName := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}

	New(&buf).SearchResults("hello", []search.Result{
		{ID: "a", Snippet: "say hello"},
		{ID: "b", Snippet: ""},
	}, displayName)

	out := buf.String()
	if !strings.Contains(out, "Alpha: say hello\n") {
		t.Errorf("expected named hit, got %q", out)
	}
	if !strings.Contains(out, "b: (match outside message text)\n") {
		t.Errorf("expected placeholder for empty snippet, got %q", out)
	}
}

func Test_SplitMatch(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		keyword string
		match   string
		before  string
		ok      bool
	}{
		{"ascii", "say Hello world", "hello", "Hello", "say ", true},
		{"length-changing fold before match", "İstanbul keyword here", "KEYWORD", "keyword", "İstanbul ", true},
		{"multibyte match", "über ÜBER", "über", "über", "", true},
		{"no match", "abc", "z", "", "", false},
		{"empty keyword", "abc", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, match, after, ok := splitMatch(tt.snippet, tt.keyword)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if match != tt.match || before != tt.before {
				t.Errorf("expected %q|%q, got %q|%q", tt.before, tt.match, before, match)
			}
			if before+match+after != tt.snippet {
				t.Errorf("pieces do not reassemble snippet: %q %q %q", before, match, after)
			}
		})
	}
}

func Test_FormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
