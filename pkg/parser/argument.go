package parser

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type ArgumentKind uint8

const (
	StringArgument ArgumentKind = iota
	NumberArgument
)

func (k ArgumentKind) String() string {
	switch k {
	case NumberArgument:
		return "number"
	default:
		return "string"
	}
}

// Argument is a positional modifier argument, either a string or a number.
type Argument struct {
	Kind   ArgumentKind
	Text   string
	Number float64
}

func StringArg(s string) Argument {
	return Argument{Kind: StringArgument, Text: s}
}

func NumberArg(n float64) Argument {
	return Argument{Kind: NumberArgument, Number: n}
}

func (a Argument) IsNumber() bool {
	return a.Kind == NumberArgument
}

func (a Argument) Equal(other Argument) bool {
	if a.Kind != other.Kind {
		return false
	}
	if a.IsNumber() {
		// NaN is written and re-read as NaN, so it has to compare equal to itself
		if math.IsNaN(a.Number) && math.IsNaN(other.Number) {
			return true
		}
		return a.Number == other.Number
	}
	return a.Text == other.Text
}

// String renders the argument the way it is written inside a modifier's parens.
// Strings are always single quoted; embedded quotes are not escaped.
func (a Argument) String() string {
	if a.IsNumber() {
		return FormatNumber(a.Number)
	}
	return "'" + a.Text + "'"
}

func (a Argument) MarshalJSON() ([]byte, error) {
	if a.IsNumber() && !math.IsNaN(a.Number) && !math.IsInf(a.Number, 0) {
		return json.Marshal(a.Number)
	}
	if a.IsNumber() {
		return json.Marshal(FormatNumber(a.Number))
	}
	return json.Marshal(a.Text)
}

// ParseArgument interprets one argument literal. The trimmed input is a number
// only when formatting the parsed value reproduces it exactly, so "42" is a
// number but "42.0", "+5" and "1e3" stay strings. Anything else has one
// matching layer of single or double quotes removed.
func ParseArgument(raw string) Argument {
	trimmed := strings.TrimSpace(raw)
	if n, ok := parseStrictNumber(trimmed); ok {
		return NumberArg(n)
	}
	return StringArg(unquote(trimmed))
}

// ParseArguments splits an argument list on every comma. Commas inside quoted
// strings are not special.
func ParseArguments(text string) []Argument {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	args := make([]Argument, 0, len(parts))
	for _, part := range parts {
		args = append(args, ParseArgument(part))
	}
	return args
}

func parseStrictNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, FormatNumber(n) == s
}

func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '\'' || first == '"') {
		return s[1 : len(s)-1]
	}
	return s
}

// FormatNumber produces the shortest decimal form of n: plain notation for
// magnitudes in [1e-6, 1e21) and exponent notation like 1e+21 or 1.5e-7 outside.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}

	abs := math.Abs(n)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(n, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}
