package parser

import (
	"strings"
)

// Serialize writes a token back to expression text. Text tokens come back
// unchanged; tag tokens are rebuilt canonically, so the output is stable under
// parse/serialize but is not guaranteed to match the original spelling.
func Serialize(tok Token) string {
	switch t := tok.(type) {
	case TextToken:
		return t.Raw
	case TagToken:
		return t.Canonical()
	case *TextToken:
		return t.Raw
	case *TagToken:
		return t.Canonical()
	default:
		return ""
	}
}

// Canonical renders @group(property) followed by each modifier with explicit parens.
func (t TagToken) Canonical() string {
	var sb strings.Builder
	sb.WriteString("@")
	sb.WriteString(t.Group)
	sb.WriteString("(")
	sb.WriteString(t.Property)
	sb.WriteString(")")
	for _, m := range t.Modifiers {
		sb.WriteString(m.String())
	}
	return sb.String()
}

// String renders ".key(arg,arg)"; zero arguments still produce "()".
func (m Modifier) String() string {
	args := make([]string, len(m.Args))
	for i, a := range m.Args {
		args[i] = a.String()
	}
	return "." + m.Key + "(" + strings.Join(args, ",") + ")"
}

// SerializeAll concatenates the serialized form of every token.
func SerializeAll(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(Serialize(tok))
	}
	return sb.String()
}

// Canonicalize rewrites every tag in text into canonical form, leaving text runs alone.
func Canonicalize(text string) string {
	return SerializeAll(Parse(text))
}
