// Package flashlog is a minimal, dependency-light stderr logger: a severity
// prefix, a timestamp, and ANSI coloring that degrades safely on non-TTY
// output or Windows consoles. No structured fields, no formatting policy
// beyond that — richer log shaping is the caller's concern.
package flashlog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Severity selects a log line's prefix and color.
type Severity int

const (
	Info Severity = iota
	Warn
	Error
)

func (s Severity) label() string {
	switch s {
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (s Severity) color() string {
	switch s {
	case Warn:
		return "\x1b[33m"
	case Error:
		return "\x1b[31m"
	default:
		return "\x1b[36m"
	}
}

const colorReset = "\x1b[0m"

// Logger writes severity-prefixed, timestamped lines to an underlying
// writer. The zero value is not usable; construct with New or Stderr.
type Logger struct {
	out    io.Writer
	color  bool
	slot   int
	hasSlot bool
}

// Stderr returns a Logger writing to os.Stderr, wrapped in go-colorable so
// ANSI escapes render correctly on Windows consoles, with color disabled
// automatically when stderr is not a terminal.
func Stderr() *Logger {
	w := colorable.NewColorableStderr()
	return &Logger{out: w, color: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())}
}

// New wraps an arbitrary writer with coloring disabled; useful for tests
// and for redirecting output to a file.
func New(w io.Writer) *Logger {
	return &Logger{out: w}
}

// WithSlot returns a copy of l that prefixes every line with the slot
// number, for per-module log correlation during a parallel scan or update.
func (l *Logger) WithSlot(slot int) *Logger {
	cp := *l
	cp.slot = slot
	cp.hasSlot = true
	return &cp
}

func (l *Logger) log(sev Severity, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	ts := time.Now().Format("15:04:05.000")
	prefix := sev.label()
	if l.hasSlot {
		prefix = fmt.Sprintf("%s slot=%d", prefix, l.slot)
	}
	if l.color {
		fmt.Fprintf(l.out, "%s%s [%s] %s%s\n", sev.color(), ts, prefix, msg, colorReset)
		return
	}
	fmt.Fprintf(l.out, "%s [%s] %s\n", ts, prefix, msg)
}

func (l *Logger) Infof(format string, args ...interface{})  { l.log(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(Error, format, args...) }
