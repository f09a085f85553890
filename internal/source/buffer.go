// Package source implements the source buffer component of spec.md §3/§4.2:
// an immutable UTF-8 byte slice paired with a filename, plus helpers for
// extracting a specific line for diagnostic rendering.
package source

import "strings"

// Buffer is the read-only source text handed to the lexer. It never
// allocates beyond the line-index cache built on first use.
type Buffer struct {
	Filename string
	Text     string

	lines []string
}

// New wraps text under filename into a Buffer.
func New(filename, text string) *Buffer {
	return &Buffer{Filename: filename, Text: text}
}

// Line returns the 1-indexed source line, or "" if out of range.
func (b *Buffer) Line(n int) string {
	if b.lines == nil {
		b.lines = strings.Split(b.Text, "\n")
	}
	if n < 1 || n > len(b.lines) {
		return ""
	}
	return b.lines[n-1]
}

// Len returns the byte length of the source text.
func (b *Buffer) Len() int { return len(b.Text) }
