package parser

import (
	"github.com/walteh/go-dyntag/pkg/position"
)

// Token is a contiguous span of a parsed expression: either a TextToken or a TagToken.
// Offsets are byte offsets into the string that was parsed and are only valid
// for that exact string.
type Token interface {
	// Position returns the span of the token in the parsed source.
	Position() position.RawPosition
	isToken()
}

// TextToken is literal passthrough text between tags.
type TextToken struct {
	Raw   string
	Start int
	End   int
}

func (t TextToken) Position() position.RawPosition {
	return position.NewBasicPosition(t.Raw, t.Start)
}

func (TextToken) isToken() {}

// TagToken is a single @group(property) invocation plus its modifier chain.
type TagToken struct {
	Raw       string
	Group     string
	Property  string
	Modifiers []Modifier
	Start     int
	End       int
}

func (t TagToken) Position() position.RawPosition {
	return position.NewBasicPosition(t.Raw, t.Start)
}

func (TagToken) isToken() {}

// Equal compares group, property and modifiers, ignoring the source span and raw text.
func (t TagToken) Equal(other TagToken) bool {
	if t.Group != other.Group || t.Property != other.Property {
		return false
	}
	if len(t.Modifiers) != len(other.Modifiers) {
		return false
	}
	for i := range t.Modifiers {
		if !t.Modifiers[i].Equal(other.Modifiers[i]) {
			return false
		}
	}
	return true
}

// WithModifiers returns a copy of the tag carrying mods instead of its own chain.
func (t TagToken) WithModifiers(mods []Modifier) TagToken {
	cp := t
	cp.Modifiers = cloneModifiers(mods)
	return cp
}

// AddModifier returns a copy of the tag with m appended to the chain.
func (t TagToken) AddModifier(m Modifier) TagToken {
	mods := cloneModifiers(t.Modifiers)
	mods = append(mods, m)
	return t.WithModifiers(mods)
}

// RemoveModifier returns a copy of the tag without the modifier at index.
// An out of range index leaves the chain untouched.
func (t TagToken) RemoveModifier(index int) TagToken {
	if index < 0 || index >= len(t.Modifiers) {
		return t.WithModifiers(t.Modifiers)
	}
	mods := make([]Modifier, 0, len(t.Modifiers)-1)
	mods = append(mods, t.Modifiers[:index]...)
	mods = append(mods, t.Modifiers[index+1:]...)
	return t.WithModifiers(mods)
}

// MoveModifier returns a copy of the tag with the modifier at from moved to to.
func (t TagToken) MoveModifier(from, to int) TagToken {
	n := len(t.Modifiers)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return t.WithModifiers(t.Modifiers)
	}
	mods := cloneModifiers(t.Modifiers)
	moved := mods[from]
	mods = append(mods[:from], mods[from+1:]...)
	mods = append(mods[:to], append([]Modifier{moved}, mods[to:]...)...)
	return t.WithModifiers(mods)
}

// Modifier is a .key(args) suffix applied to a tag's value.
type Modifier struct {
	Key  string
	Args []Argument
}

func (m Modifier) Equal(other Modifier) bool {
	if m.Key != other.Key || len(m.Args) != len(other.Args) {
		return false
	}
	for i := range m.Args {
		if !m.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

func cloneModifiers(mods []Modifier) []Modifier {
	if mods == nil {
		return nil
	}
	out := make([]Modifier, len(mods))
	for i, m := range mods {
		out[i] = Modifier{Key: m.Key}
		if m.Args != nil {
			out[i].Args = append([]Argument(nil), m.Args...)
		}
	}
	return out
}

// Tags filters tokens down to tag tokens, preserving order.
// The result is indexed the way ReplaceTokenAt and ActiveTagIndex count tags.
func Tags(tokens []Token) []TagToken {
	tags := make([]TagToken, 0, len(tokens))
	for _, tok := range tokens {
		if tag, ok := tok.(TagToken); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}
