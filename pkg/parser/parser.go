/*
Package parser tokenizes dynamic tag expressions and writes them back out.

An expression is free text with tag invocations embedded in it:

	Hello @post(title).truncate(20).upper() world
	      |    |     |                    |
	      |    |     +--- modifier chain -+
	      |    +--------- property (may be empty: @site())
	      +-------------- group

The grammar is regular. Arguments are scanned up to the first ')', so an
argument containing a literal ')' ends the tag early, and arguments are split
on every ',' even inside quotes. Callers that build expressions rely on this
exact grammar, so it is kept as is.
*/
package parser

import (
	"regexp"
)

var (
	tagPattern      = regexp.MustCompile(`@(\w+)\(([^)]*)\)((?:\.\w+(?:\([^)]*\)))*)`)
	modifierPattern = regexp.MustCompile(`\.(\w+)(?:\(([^)]*)\))?`)
)

// Parse splits text into text and tag tokens, left to right, without overlaps.
// Empty gaps between adjacent tags are not emitted. Malformed tag syntax never
// fails; it simply stays part of the surrounding text token.
func Parse(text string) []Token {
	matches := tagPattern.FindAllStringSubmatchIndex(text, -1)
	tokens := make([]Token, 0, 2*len(matches)+1)

	last := 0
	for _, m := range matches {
		if m[0] > last {
			tokens = append(tokens, TextToken{Raw: text[last:m[0]], Start: last, End: m[0]})
		}

		tokens = append(tokens, TagToken{
			Raw:       text[m[0]:m[1]],
			Group:     text[m[2]:m[3]],
			Property:  text[m[4]:m[5]],
			Modifiers: ParseModifiers(text[m[6]:m[7]]),
			Start:     m[0],
			End:       m[1],
		})

		last = m[1]
	}

	if last < len(text) {
		tokens = append(tokens, TextToken{Raw: text[last:], Start: last, End: len(text)})
	}

	return tokens
}

// ParseModifiers reads a chain such as ".truncate(20).upper()". Parens are
// optional here, a bare ".upper" yields a modifier without arguments.
func ParseModifiers(chain string) []Modifier {
	matches := modifierPattern.FindAllStringSubmatchIndex(chain, -1)
	if len(matches) == 0 {
		return nil
	}

	mods := make([]Modifier, 0, len(matches))
	for _, m := range matches {
		mod := Modifier{Key: chain[m[2]:m[3]]}
		if m[4] >= 0 {
			mod.Args = ParseArguments(chain[m[4]:m[5]])
		}
		mods = append(mods, mod)
	}

	return mods
}

// CountTags returns how many tag tokens text contains.
func CountTags(text string) int {
	return len(tagPattern.FindAllStringIndex(text, -1))
}
