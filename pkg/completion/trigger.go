package completion

import (
	"regexp"
	"strings"

	"github.com/walteh/go-dyntag/pkg/position"
)

var (
	tagTriggerPattern = regexp.MustCompile(`@(\w*)$`)

	// ")." then the modifier name being typed
	modifierQueryPattern = regexp.MustCompile(`\)\.(\w*)$`)

	// the invocation a modifier attaches to, anchored at an '@'
	tagOpenPattern = regexp.MustCompile(`^@(\w+)\(`)
)

// TagTrigger means the user is typing "@query" and wants a tag inserted.
type TagTrigger struct {
	Query string
	// AtIndex is the offset of the '@' that opened the trigger.
	AtIndex int
}

// ModifierTrigger means the user typed "." right after a closed tag or modifier.
type ModifierTrigger struct {
	Query string
	// Group is the group of the tag the modifier will attach to.
	Group string
	// DotIndex is the offset of the '.' that opened the trigger.
	DotIndex int
}

// DetectTagTrigger checks whether the text before cursor ends in "@word".
// It returns nil when it does not. The cursor is clamped into the text.
func DetectTagTrigger(text string, cursor int) *TagTrigger {
	before := text[:position.Clamp(cursor, len(text))]

	m := tagTriggerPattern.FindStringSubmatchIndex(before)
	if m == nil {
		return nil
	}

	return &TagTrigger{
		Query:   before[m[2]:m[3]],
		AtIndex: m[0],
	}
}

// DetectModifierTrigger checks whether the text before cursor ends in ").word"
// and an earlier unescaped '@' opens a tag invocation "@group(". The nearest
// such '@' names the group. Stray dots in plain text never trigger. It returns
// nil when there is no trigger.
func DetectModifierTrigger(text string, cursor int) *ModifierTrigger {
	before := text[:position.Clamp(cursor, len(text))]

	m := modifierQueryPattern.FindStringSubmatchIndex(before)
	if m == nil {
		return nil
	}
	dot := m[2] - 1

	group, ok := enclosingGroup(before[:dot])
	if !ok {
		return nil
	}

	return &ModifierTrigger{
		Query:    before[m[2]:m[3]],
		Group:    group,
		DotIndex: dot,
	}
}

// enclosingGroup walks back over every '@' in text and returns the group of
// the nearest one that starts "@group(".
func enclosingGroup(text string) (string, bool) {
	for at := strings.LastIndexByte(text, '@'); at >= 0; at = strings.LastIndexByte(text[:at], '@') {
		if at > 0 && text[at-1] == '\\' {
			continue
		}
		if m := tagOpenPattern.FindStringSubmatch(text[at:]); m != nil {
			return m[1], true
		}
	}
	return "", false
}
