package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxContentLength is the number of characters kept from a projected message.
const MaxContentLength = 1000

// Message is the display-ready projection of a transcript record.
type Message struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"` // passed through verbatim
}

// Record is one JSONL line of a transcript.
type Record struct {
	Type      string          `json:"type"`
	Message   *RecordMessage  `json:"message,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

// RecordMessage is the message field within a record.
type RecordMessage struct {
	Role    string  `json:"role,omitempty"`
	Content Content `json:"content"`
}

// ContentKind tags which shape message.content had on the wire.
type ContentKind int

const (
	ContentNone  ContentKind = iota // absent, null, or an unsupported shape
	ContentText                     // a plain string
	ContentParts                    // an array of content parts
)

// Content is message.content: either a string or a sequence of parts.
type Content struct {
	Kind  ContentKind
	Str   string
	Parts []Part
}

// Part is one element of an array-shaped message.content.
type Part struct {
	Type string
	Text string
}

// UnmarshalJSON accepts a string, an array of parts, or anything else
// (which decodes to ContentNone rather than failing the whole record).
func (c *Content) UnmarshalJSON(data []byte) error {
	*c = Content{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		if err := json.Unmarshal(trimmed, &c.Str); err != nil {
			return err
		}
		c.Kind = ContentText
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		c.Kind = ContentParts
		c.Parts = make([]Part, 0, len(raw))
		for _, r := range raw {
			if bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
				return errNullPart
			}
			c.Parts = append(c.Parts, decodePart(r))
		}
	}
	return nil
}

// errNullPart rejects a content array holding null, which makes the whole
// record unusable.
var errNullPart = errors.New("null content part")

// decodePart keeps only string-valued "type" and "text" fields; any other
// non-null element shape becomes an empty part.
func decodePart(data json.RawMessage) Part {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Part{}
	}

	var p Part
	if v, ok := fields["type"]; ok {
		_ = json.Unmarshal(v, &p.Type)
	}
	if v, ok := fields["text"]; ok {
		_ = json.Unmarshal(v, &p.Text)
	}
	return p
}

// Label is the part's text, falling back to its type tag.
func (p Part) Label() string {
	if p.Text != "" {
		return p.Text
	}
	return p.Type
}

// Extract returns the plain text carried by the content.
func (c Content) Extract() string {
	switch c.Kind {
	case ContentText:
		return c.Str
	case ContentParts:
		return joinParts(c.Parts)
	default:
		return ""
	}
}

func joinParts(parts []Part) string {
	labels := make([]string, len(parts))
	for i, p := range parts {
		labels[i] = p.Label()
	}
	return strings.Join(labels, "\n")
}

// IsConversational reports whether the record is a user or assistant turn.
func (r Record) IsConversational() bool {
	return (r.Type == "user" || r.Type == "assistant") && r.Message != nil
}

// ParseBytes projects every line of a transcript, in file order. Malformed
// lines are skipped.
func ParseBytes(data []byte) []Message {
	messages := []Message{}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if msg, ok := parseLine(line); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// parseLine projects a single line into a Message.
// Returns false if the line is malformed or carries no displayable text.
func parseLine(line string) (Message, bool) {
	rec, err := DecodeRecord(line)
	if err != nil || !rec.IsConversational() {
		return Message{}, false
	}

	text := rec.Message.Content.Extract()
	if text == "" {
		return Message{}, false
	}

	return Message{
		Role:      rec.Type,
		Content:   Truncate(text, MaxContentLength),
		Timestamp: rec.Timestamp,
	}, true
}

// DecodeRecord parses one line into a Record.
func DecodeRecord(line string) (Record, error) {
	var rec Record
	err := json.Unmarshal([]byte(line), &rec)
	return rec, err
}

// Truncate cuts s to at most maxChars characters. The cut is not word-aware.
func Truncate(s string, maxChars int) string {
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxChars])
}
