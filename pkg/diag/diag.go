// Package diag implements the diagnostics sink of spec.md §4.1: an
// append-only collection of (severity, code, location, message) records.
// Pushing a diagnostic never fails; the sink performs no output of its own
// — presentation is left to the embedder, matching the teacher's
// internal/errors formatting helpers kept one layer up from the core passes.
package diag

import (
	"fmt"
	"strings"

	"github.com/huayulang/huac/internal/source"
	"github.com/huayulang/huac/internal/token"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single recorded compiler message.
type Diagnostic struct {
	Severity Severity
	Code     Code
	File     string
	Pos      token.Position
	Message  string
}

// Sink collects diagnostics in append order. The zero value is ready to use.
type Sink struct {
	diagnostics []Diagnostic
	errorCount  int
}

// New creates an empty Sink.
func New() *Sink { return &Sink{} }

// Push appends a diagnostic. Infallible by contract (spec.md §4.1).
func (s *Sink) Push(sev Severity, code Code, file string, pos token.Position, msg string) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Severity: sev, Code: code, File: file, Pos: pos, Message: msg,
	})
	if sev == Error {
		s.errorCount++
	}
}

// Errorf is a convenience wrapper for Push(Error, ...).
func (s *Sink) Errorf(code Code, file string, pos token.Position, format string, args ...any) {
	s.Push(Error, code, file, pos, fmt.Sprintf(format, args...))
}

// Warnf is a convenience wrapper for Push(Warning, ...).
func (s *Sink) Warnf(code Code, file string, pos token.Position, format string, args ...any) {
	s.Push(Warning, code, file, pos, fmt.Sprintf(format, args...))
}

// ErrorCount returns the number of Error-severity diagnostics pushed so far.
// A stage is successful iff this count is unchanged across the stage
// (spec.md §4.1, §7).
func (s *Sink) ErrorCount() int { return s.errorCount }

// All returns every diagnostic pushed, in append order.
func (s *Sink) All() []Diagnostic { return s.diagnostics }

// Reset clears the sink, for reuse across compilations.
func (s *Sink) Reset() {
	s.diagnostics = nil
	s.errorCount = 0
}

// Format renders a single diagnostic with a caret pointing at its column,
// in the style of the teacher's internal/errors package.
func Format(d Diagnostic, buf *source.Buffer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s[%d]: %s:%d:%d: %s\n", d.Severity, d.Code, d.File, d.Pos.Line, d.Pos.Column, d.Message)
	if buf != nil {
		if line := buf.Line(d.Pos.Line); line != "" {
			fmt.Fprintf(&sb, "%4d | %s\n", d.Pos.Line, line)
			col := d.Pos.Column
			if col < 1 {
				col = 1
			}
			sb.WriteString(strings.Repeat(" ", 7+col-1))
			sb.WriteString("^\n")
		}
	}
	return sb.String()
}

// FormatAll renders every diagnostic in the sink, in append order.
func FormatAll(s *Sink, buf *source.Buffer) string {
	var sb strings.Builder
	for _, d := range s.All() {
		sb.WriteString(Format(d, buf))
	}
	return sb.String()
}
