package completion

import (
	"strings"

	"github.com/walteh/go-dyntag/pkg/position"
)

// Edit is the result of accepting a suggestion: the full new text and where
// the cursor should go. Nothing is validated; the next parse decides.
type Edit struct {
	NewText   string `json:"new_text"`
	NewCursor int    `json:"new_cursor"`
}

// ApplyTagAcceptance replaces text[atIndex:cursor] (the "@query" being typed)
// with the canonical tag string and puts the cursor right after it.
func ApplyTagAcceptance(text string, atIndex, cursor int, tag string) Edit {
	atIndex, cursor = spliceBounds(text, atIndex, cursor)
	return Edit{
		NewText:   text[:atIndex] + tag + text[cursor:],
		NewCursor: atIndex + len(tag),
	}
}

// ApplyModifierAcceptance replaces text[dotIndex:cursor] (the ".query" being
// typed) with the modifier code. When the code has an empty "()" the cursor
// lands just before the final ')' so an argument can be typed immediately.
func ApplyModifierAcceptance(text string, dotIndex, cursor int, code string) Edit {
	dotIndex, cursor = spliceBounds(text, dotIndex, cursor)

	newCursor := dotIndex + len(code)
	if strings.Contains(code, "()") {
		newCursor = dotIndex + strings.LastIndex(code, ")")
	}

	return Edit{
		NewText:   text[:dotIndex] + code + text[cursor:],
		NewCursor: newCursor,
	}
}

// LastDotIndex finds the last '.' at or before cursor, or -1.
func LastDotIndex(text string, cursor int) int {
	return strings.LastIndexByte(text[:position.Clamp(cursor, len(text))], '.')
}

func spliceBounds(text string, start, end int) (int, int) {
	end = position.Clamp(end, len(text))
	start = position.Clamp(start, end)
	return start, end
}
