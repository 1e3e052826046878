package config

import (
	"io"
	"strconv"
	"strings"

	"github.com/walteh/go-dyntag/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Input picks the expression to work on: inline text wins, then the file
// argument, then stdin.
func (g *Globals) Input(args []string, inline string, stdin io.Reader) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if len(args) == 0 {
		return g.ReadInput("-", stdin)
	}
	return g.ReadInput(args[0], stdin)
}

// Cursor resolves the cursor for text. at is a one-based "line:col" and wins
// over offset; a negative offset means the end of the text.
func Cursor(text string, offset int, at string) (int, error) {
	if at == "" {
		if offset < 0 {
			return len(text), nil
		}
		return position.Clamp(offset, len(text)), nil
	}

	lineStr, colStr, ok := strings.Cut(at, ":")
	if !ok {
		return 0, errors.Errorf("invalid position %q, expected line:col", at)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return 0, errors.Errorf("invalid line in %q", at)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return 0, errors.Errorf("invalid column in %q", at)
	}

	return position.NewRawPositionFromLineAndColumn(line-1, col-1, "", text).Offset, nil
}
