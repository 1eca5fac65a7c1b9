// Package trace is the leveled tracing facility the CLI wires through its
// --log-level flag. It wraps log/slog: no dependency in the module's
// third-party stack offers a structured logger (see DESIGN.md), so this is
// the one ambient concern left on the standard library.
package trace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Level is the ordered tracing severity, from quietest to loudest.
type Level int

const (
	Silent Level = iota
	Illustrative
	Verbose
	Effusive
	Debug
)

var levelNames = [...]string{
	Silent: "SILENT",
	Illustrative: "ILLUSTRATIVE",
	Verbose: "VERBOSE",
	Effusive: "EFFUSIVE",
	Debug: "DEBUG",
}

func (l Level) String() string {
	if int(l) >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLevel resolves a --log-level flag value, case-insensitively.
func ParseLevel(s string) (Level, bool) {
	for l, name := range levelNames {
		if equalFold(name, s) {
			return Level(l), true
		}
	}
	return Silent, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'a' <= ca && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if 'a' <= cb && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// slogLevel maps a Level to a slog.Level so lower-than-threshold
// calls are cheaply filtered by the underlying handler. Levels run
// SILENT < ILLUSTRATIVE < VERBOSE < EFFUSIVE < DEBUG; slog's own scale
// only has four rungs, so VERBOSE sits just below slog's Info, EFFUSIVE at
// slog's Debug and DEBUG below that, to preserve the five-way ordering in
// the threshold check.
func slogLevel(l Level) slog.Level {
	switch l {
	case Silent:
		return slog.Level(100) // above any real message, so nothing logs
	case Illustrative:
		return slog.LevelInfo
	case Verbose:
		return slog.LevelInfo - 1
	case Effusive:
		return slog.LevelDebug
	case Debug:
		return slog.LevelDebug - 4
	default:
		return slog.LevelInfo
	}
}

// Logger emits phase-start/phase-end lines at Illustrative and
// opcode-level execution traces at Debug.
type Logger struct {
	level Level
	slog *slog.Logger
}

// New builds a Logger writing to w, gated at level.
func New(w io.Writer, level Level) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})
	return &Logger{level: level, slog: slog.New(h)}
}

// Level reports the Logger's configured threshold.
func (l *Logger) Level() Level { return l.level }

// Phase logs a phase boundary (lex/parse/compile/interpret) at
// Illustrative, e.g. Phase("lex", "start").
func (l *Logger) Phase(name, event string) {
	l.slog.Log(context.Background(), slogLevel(Illustrative), "phase", "name", name, "event", event)
}

// Verbosef logs a free-form message at Verbose.
func (l *Logger) Verbosef(format string, args ...any) {
	l.slog.Log(context.Background(), slogLevel(Verbose), fmt.Sprintf(format, args...))
}

// Opcode logs a single dispatched opcode at Debug.
func (l *Logger) Opcode(opcode byte, name string, pos string) {
	l.slog.Log(context.Background(), slogLevel(Debug), "exec", "opcode", opcode, "name", name, "pos", pos)
}
