package parser

// ReplaceTokenAt re-parses text and swaps the tag at tagIndex (counting tag
// tokens only) for the serialized form of tok. A stale or out of range index
// returns text unchanged.
func ReplaceTokenAt(text string, tagIndex int, tok Token) string {
	tags := Tags(Parse(text))
	if tagIndex < 0 || tagIndex >= len(tags) {
		return text
	}

	old := tags[tagIndex]
	return text[:old.Start] + Serialize(tok) + text[old.End:]
}

// TokenAt returns the first token whose span contains pos, both ends
// inclusive, or nil. A cursor right after a tag therefore still selects it.
func TokenAt(tokens []Token, pos int) Token {
	for _, tok := range tokens {
		if tok.Position().Contains(pos) {
			return tok
		}
	}
	return nil
}

// ActiveTagIndex returns the index, among tag tokens only, of the tag under
// pos, or -1 when the cursor is not on a tag.
func ActiveTagIndex(tokens []Token, pos int) int {
	for i, tag := range Tags(tokens) {
		if tag.Position().Contains(pos) {
			return i
		}
	}
	return -1
}
