// Package diag formats compiler and runtime diagnostics with source
// context and a caret pointing at the offending column.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cwbudde/clc/internal/token"
)

// Severity classifies a Message, mirroring four message kinds.
type Severity int

const (
	Info Severity = iota
	Warning
	UserError
	InternalError
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case UserError:
		return "error"
	case InternalError:
		return "internal error"
	default:
		return "unknown"
	}
}

// Message is a diagnostic with one or more source occurrences. Two calls
// to Collector.Add with identical (Severity, Text) collapse into the same
// Message, accumulating occurrences rather than duplicating entries.
type Message struct {
	Severity Severity
	Text string
	Seq int // insertion order of the first occurrence
	Occurrences []token.Position
}

// Error implements the error interface over the first occurrence.
func (m *Message) Error() string { return m.Format(false) }

// Format renders the message with a source line and caret for its first
// occurrence.
func (m *Message) Format(color bool) string {
	return m.formatAt(0, color, "")
}

func (m *Message) formatAt(i int, color bool, source string) string {
	var sb strings.Builder
	pos := m.Occurrences[i]

	if pos.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", strings.ToUpper(m.Severity.String()[:1])+m.Severity.String()[1:], pos.File, pos.Line, pos.Col)
	} else {
		fmt.Fprintf(&sb, "%s at line %d:%d\n", strings.ToUpper(m.Severity.String()[:1])+m.Severity.String()[1:], pos.Line, pos.Col)
	}

	if line := sourceLine(source, pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+pos.Col-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(m.Text)
	if color {
		sb.WriteString("\033[0m")
	}
	if len(m.Occurrences) > 1 {
		fmt.Fprintf(&sb, " (%d occurrences)", len(m.Occurrences))
	}
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Collector accumulates deduplicated Messages across a compile pass and
// enforces a configurable error limit (default 30).
type Collector struct {
	source string
	messages []*Message
	index map[string]int // "severity\x00text" -> index into messages
	seq int
	errorLimit int
}

// NewCollector starts a Collector against the full source text (used to
// slice out the offending line for each reported Message) with the
// default error limit of 30.
func NewCollector(source string) *Collector {
	return &Collector{source: source, index: map[string]int{}, errorLimit: 30}
}

// SetErrorLimit overrides the default limit on UserError count before the
// compiler should halt.
func (c *Collector) SetErrorLimit(n int) { c.errorLimit = n }

// Add records a Message, deduplicating against an identical (Severity,
// Text) pair already seen by appending pos to its occurrence list.
func (c *Collector) Add(severity Severity, pos token.Position, format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	key := fmt.Sprintf("%d\x00%s", severity, text)
	if i, ok := c.index[key]; ok {
		c.messages[i].Occurrences = append(c.messages[i].Occurrences, pos)
		return
	}
	c.index[key] = len(c.messages)
	c.messages = append(c.messages, &Message{
			Severity: severity,
			Text: text,
			Seq: c.seq,
			Occurrences: []token.Position{pos},
	})
	c.seq++
}

// Count returns the number of distinct Messages (not occurrences) at the
// given severity.
func (c *Collector) Count(severity Severity) int {
	n := 0
	for _, m := range c.messages {
		if m.Severity == severity {
			n++
		}
	}
	return n
}

// HasErrors reports whether any UserError or InternalError was recorded.
func (c *Collector) HasErrors() bool {
	return c.Count(UserError) > 0 || c.Count(InternalError) > 0
}

// ShouldHalt reports whether the compiler has hit the configured error
// limit and must stop recovering.
func (c *Collector) ShouldHalt() bool {
	return c.Count(UserError) >= c.errorLimit
}

// Messages returns every recorded Message in insertion order.
func (c *Collector) Messages() []*Message {
	out := make([]*Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// ChronologicalReport renders every Message in insertion order.
func (c *Collector) ChronologicalReport() string {
	var sb strings.Builder
	for i, m := range c.messages {
		sb.WriteString(m.formatAt(0, false, c.source))
		if i < len(c.messages)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// GroupedReport renders every Message grouped by severity, most severe
// first.
func (c *Collector) GroupedReport() string {
	order := []Severity{InternalError, UserError, Warning, Info}
	grouped := make(map[Severity][]*Message, len(order))
	for _, m := range c.messages {
		grouped[m.Severity] = append(grouped[m.Severity], m)
	}

	var sb strings.Builder
	first := true
	for _, sev := range order {
		msgs := grouped[sev]
		if len(msgs) == 0 {
			continue
		}
		sort.Slice(msgs, func(i, j int) bool { return msgs[i].Seq < msgs[j].Seq })
		if !first {
			sb.WriteString("\n")
		}
		first = false
		fmt.Fprintf(&sb, "%s(s):\n", strings.ToUpper(sev.String()[:1])+sev.String()[1:])
		for _, m := range msgs {
			sb.WriteString(m.formatAt(0, false, c.source))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
