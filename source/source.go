// Package source holds tinylang source buffers and maps byte offsets back to
// human-readable file, line and column locations.
package source

import (
	"fmt"
	"sort"
)

// Pos is a byte offset into a [Buffer].
type Pos int

// NoPos marks a synthesized node or diagnostic without a source location.
const NoPos Pos = -1

// IsValid reports whether p refers to a location in a buffer.
func (p Pos) IsValid() bool { return p >= 0 }

// Location is the human-readable form of a [Pos].
type Location struct {
	File   string `json:"file"   yaml:"file"`
	Line   int    `json:"line"   yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Offset int    `json:"offset" yaml:"offset"`
}

// IsValid reports whether l was resolved from a valid position.
func (l Location) IsValid() bool { return l.Line > 0 }

// String returns "file:line:col", omitting unknown parts.
func (l Location) String() string {
	switch {
	case !l.IsValid() && l.File == "":
		return "-"
	case !l.IsValid():
		return l.File
	case l.File == "":
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	default:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
}

// Buffer is an immutable, randomly accessible source text.
type Buffer struct {
	Name  string
	Data  []byte
	lines []int // offset of the first byte of each line
}

// New returns a buffer named name holding data.
func New(name string, data []byte) *Buffer {
	b := &Buffer{Name: name, Data: data, lines: []int{0}}

	for i, c := range data {
		if c == '\n' {
			b.lines = append(b.lines, i+1)
		}
	}

	return b
}

// NewString is a convenience wrapper around [New].
func NewString(name, text string) *Buffer { return New(name, []byte(text)) }

// Len returns the number of bytes in b.
func (b *Buffer) Len() int { return len(b.Data) }

// NumLines returns the number of lines in b. A trailing newline starts an
// empty final line.
func (b *Buffer) NumLines() int { return len(b.lines) }

// Location maps pos to its file, line and column. Columns count bytes and
// both line and column are 1-based. Offsets past the end of the buffer clamp
// to its end so the EOF token has a location.
func (b *Buffer) Location(pos Pos) Location {
	if b == nil || !pos.IsValid() {
		if b == nil {
			return Location{Offset: int(NoPos)}
		}

		return Location{File: b.Name, Offset: int(NoPos)}
	}

	off := min(int(pos), len(b.Data))
	line := sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > off }) - 1

	return Location{
		File:   b.Name,
		Line:   line + 1,
		Column: off - b.lines[line] + 1,
		Offset: off,
	}
}

// Line returns the text of the 1-based line n without its line terminator,
// or "" if n is out of range.
func (b *Buffer) Line(n int) string {
	if b == nil || n < 1 || n > len(b.lines) {
		return ""
	}

	start, end := b.lines[n-1], len(b.Data)
	if n < len(b.lines) {
		end = b.lines[n] - 1
	}

	if end > start && b.Data[end-1] == '\r' {
		end--
	}

	return string(b.Data[start:end])
}

// Text returns the bytes in [from, to).
func (b *Buffer) Text(from, to Pos) string {
	from, to = max(from, 0), min(to, Pos(len(b.Data)))
	if from >= to {
		return ""
	}

	return string(b.Data[from:to])
}
