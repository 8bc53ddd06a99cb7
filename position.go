package apla

import (
	"fmt"
	"strings"

	"github.com/cznic/mathutil"
)

// Pos is a location in a source file. Line is 1-based, Column and Index are
// 0-based byte offsets.
type Pos struct {
	Index  int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column+1)
}

func (p Pos) advance(c byte) Pos {
	p.Index++
	if c == '\n' {
		p.Line++
		p.Column = 0
	} else {
		p.Column++
	}
	return p
}

// Span is the half-open range [Start, End) covered by a token or node.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return s.Start.String()
}

// To returns the span from the start of s to the end of other.
func (s Span) To(other Span) Span {
	return Span{Start: s.Start, End: other.End}
}

type SourceFile struct {
	Name string
	Text string
}

func NewSourceFile(name, text string) *SourceFile {
	return &SourceFile{Name: name, Text: text}
}

// Excerpt renders the lines covered by span with a caret line under each.
// Tabs are kept in the caret prefix so the carets line up in a terminal.
func (f *SourceFile) Excerpt(span Span) string {
	if f == nil || span.Start.Line <= 0 {
		return ""
	}
	lines := strings.Split(f.Text, "\n")
	var builder strings.Builder
	last := mathutil.Clamp(span.End.Line, span.Start.Line, len(lines))
	for n := span.Start.Line; n <= last && n <= len(lines); n++ {
		line := strings.TrimRight(lines[n-1], "\r")
		from, to := 0, len(line)
		if n == span.Start.Line {
			from = mathutil.Clamp(span.Start.Column, 0, len(line))
		}
		if n == span.End.Line {
			to = mathutil.Clamp(span.End.Column, from, len(line))
		}
		if to == from {
			to = from + 1
		}
		if n != span.Start.Line {
			builder.WriteByte('\n')
		}
		builder.WriteString(line)
		builder.WriteByte('\n')
		for i := 0; i < from; i++ {
			if line[i] == '\t' {
				builder.WriteByte('\t')
			} else {
				builder.WriteByte(' ')
			}
		}
		builder.WriteString(strings.Repeat("^", to-from))
	}
	return builder.String()
}
