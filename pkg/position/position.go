package position

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

type Place struct {
	Line      int
	Character int
}

type Range struct {
	Start Place
	End   Place
}

// RawPosition represents a span of the source text
type RawPosition struct {
	// Offset is the byte offset in the source text
	Offset int
	// Text is the actual text at this position
	Text string
}

// Length returns the length of the text at this position
func (p *RawPosition) Length() int {
	return len(p.Text)
}

// End returns the byte offset just past the span.
func (p RawPosition) End() int {
	return p.Offset + len(p.Text)
}

func NewBasicPosition(text string, offset int) RawPosition {
	return RawPosition{Text: text, Offset: offset}
}

// NewSpanPosition slices [start, end) out of source.
func NewSpanPosition(source string, start, end int) RawPosition {
	start = Clamp(start, len(source))
	end = Clamp(end, len(source))
	if end < start {
		end = start
	}
	return RawPosition{Text: source[start:end], Offset: start}
}

// NewRawPositionFromLineAndColumn converts zero-based line and byte column into an offset.
// Lines past the end of fileText resolve to the end of the text.
func NewRawPositionFromLineAndColumn(line, col int, text, fileText string) RawPosition {
	split := strings.Split(fileText, "\n")
	offset := 0
	for i := 0; i < line && i < len(split); i++ {
		offset += len(split[i]) + 1
	}
	offset += col
	return RawPosition{Text: text, Offset: Clamp(offset, len(fileText))}
}

// Contains reports whether offset lies within the span, counting both ends.
// A cursor sitting right after the last byte still belongs to the span.
func (p RawPosition) Contains(offset int) bool {
	return offset >= p.Offset && offset <= p.End()
}

func (p RawPosition) HasRangeOverlapWith(start RawPosition) bool {
	startOffset := start.Offset
	endOffset := startOffset + start.Length()

	posOffset := p.Offset
	posEndOffset := posOffset + p.Length()

	// zero-length ranges overlap when they fall within the other range
	if p.Length() == 0 {
		return posOffset >= startOffset && posOffset <= endOffset
	}
	if start.Length() == 0 {
		return startOffset >= posOffset && startOffset <= posEndOffset
	}

	return startOffset < posEndOffset && endOffset > posOffset
}

// GetLineAndColumn calculates the line and column number for a given position in the text
// Returns zero-based line and byte column numbers
func (p RawPosition) GetLineAndColumn(text string) (line, col int) {
	offset := Clamp(p.Offset, len(text))
	if offset == 0 {
		return 0, 0
	}

	lastNewline := -1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}

	col = offset - lastNewline - 1

	return line, col
}

// GetGraphemeColumn returns the zero-based column counted in user-perceived
// characters rather than bytes.
func (p RawPosition) GetGraphemeColumn(text string) int {
	offset := Clamp(p.Offset, len(text))
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	return CountGraphemes(text[lineStart:offset])
}

// CountGraphemes counts extended grapheme clusters in s.
func CountGraphemes(s string) int {
	n, err := textseg.TokenCount([]byte(s), textseg.ScanGraphemeClusters)
	if err != nil {
		return len(s)
	}
	return n
}

func (p RawPosition) GetEndPosition() RawPosition {
	return RawPosition{
		Text:   "",
		Offset: p.Offset + p.Length(),
	}
}

// GetRange calculates the line/column range for a RawPosition
func (p RawPosition) GetRange(fileText string) Range {
	startLine, startCol := p.GetLineAndColumn(fileText)
	endLine, endCol := p.GetEndPosition().GetLineAndColumn(fileText)
	return Range{
		Start: Place{Line: startLine, Character: startCol},
		End:   Place{Line: endLine, Character: endCol},
	}
}

func (p RawPosition) String() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}

// Clamp pins offset into [0, length].
func Clamp(offset, length int) int {
	if offset < 0 {
		return 0
	}
	if offset > length {
		return length
	}
	return offset
}
