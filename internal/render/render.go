// Package render formats transcripts, listings, and search hits for a
// terminal. Output to a non-terminal writer carries no escape codes.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/pbrown/claude-viewer/internal/search"
	"github.com/pbrown/claude-viewer/internal/transcript"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
	archivedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	matchStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// Renderer writes human-readable views to one output.
type Renderer struct {
	out   io.Writer
	tty   bool
	width int
	md    *glamour.TermRenderer
}

// New creates a Renderer for out, detecting whether it is a terminal.
func New(out io.Writer) *Renderer {
	tty, width := detect(out)

	style := glamour.WithStandardStyle("notty")
	if tty {
		style = glamour.WithAutoStyle()
	}
	md, _ := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width-4),
	)

	return &Renderer{out: out, tty: tty, width: width, md: md}
}

func detect(out io.Writer) (bool, int) {
	f, ok := out.(*os.File)
	if !ok {
		return false, DefaultWidth
	}

	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return false, DefaultWidth
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = DefaultWidth
	}
	return true, width
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.tty {
		return text
	}
	return s.Render(text)
}

// Markdown renders text as markdown, falling back to the raw text.
func (r *Renderer) Markdown(text string) string {
	if r.md == nil {
		return text
	}
	out, err := r.md.Render(text)
	if err != nil {
		return text
	}
	return out
}

// Session writes every message of a parsed transcript under a title.
func (r *Renderer) Session(title string, s transcript.Session) {
	fmt.Fprintln(r.out, r.style(titleStyle, title))
	if title != s.ID {
		fmt.Fprintln(r.out, r.style(dimStyle, s.ID))
	}
	fmt.Fprintln(r.out)

	if len(s.Messages) == 0 {
		fmt.Fprintln(r.out, "No messages.")
		return
	}

	for _, m := range s.Messages {
		fmt.Fprintln(r.out, r.roleHeader(m))
		fmt.Fprint(r.out, r.Markdown(m.Content))
		fmt.Fprintln(r.out)
	}
}

func (r *Renderer) roleHeader(m transcript.Message) string {
	style := assistantStyle
	if m.Role == "user" {
		style = userStyle
	}

	header := r.style(style, m.Role)
	if ts := timestampText(m); ts != "" {
		header += " " + r.style(dimStyle, ts)
	}
	return header
}

// timestampText unquotes a JSON string timestamp; other JSON values are
// shown as-is.
func timestampText(m transcript.Message) string {
	raw := strings.TrimSpace(string(m.Timestamp))
	if raw == "" || raw == "null" {
		return ""
	}
	return strings.Trim(raw, `"`)
}

// ListItem is one row of a transcript listing.
type ListItem struct {
	Transcript transcript.Transcript
	Name       string
	Archived   bool
}

// List writes one line per transcript.
func (r *Renderer) List(items []ListItem) {
	if len(items) == 0 {
		fmt.Fprintln(r.out, "No sessions found.")
		return
	}

	for _, it := range items {
		t := it.Transcript
		line := fmt.Sprintf("%s  %s  %s  %s",
			r.style(titleStyle.UnsetUnderline(), it.Name),
			r.style(dimStyle, t.ID),
			t.ModifiedAt.Format("2006-01-02 15:04"),
			FormatSize(t.SizeBytes),
		)
		if it.Archived {
			line += " " + r.style(archivedStyle, "[archived]")
		}
		fmt.Fprintln(r.out, line)
	}
}

// SearchResults writes one line per hit, labelled with the display name.
func (r *Renderer) SearchResults(keyword string, results []search.Result, displayName func(string) string) {
	if len(results) == 0 {
		fmt.Fprintln(r.out, "No matches.")
		return
	}

	for _, res := range results {
		snippet := res.Snippet
		if snippet == "" {
			snippet = "(match outside message text)"
		} else {
			snippet = r.highlight(snippet, keyword)
		}
		fmt.Fprintf(r.out, "%s: %s\n", r.style(titleStyle.UnsetUnderline(), displayName(res.ID)), snippet)
	}
}

// highlight styles the first case-insensitive occurrence of keyword.
func (r *Renderer) highlight(snippet, keyword string) string {
	if !r.tty {
		return snippet
	}
	before, match, after, ok := splitMatch(snippet, keyword)
	if !ok {
		return snippet
	}
	return before + matchStyle.Render(match) + after
}

// splitMatch cuts snippet around the first case-insensitive occurrence of
// keyword, on character boundaries.
func splitMatch(snippet, keyword string) (before, match, after string, ok bool) {
	start, end, ok := search.Match(snippet, keyword)
	if !ok {
		return "", "", "", false
	}
	runes := []rune(snippet)
	return string(runes[:start]), string(runes[start:end]), string(runes[end:]), true
}

// FormatSize renders a byte count with a binary unit.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
