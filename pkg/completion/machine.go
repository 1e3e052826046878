package completion

import (
	"context"
)

type Key uint8

const (
	KeyEscape Key = iota + 1
	KeyUp
	KeyDown
	KeyEnter
	KeyTab
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "escape"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEnter:
		return "enter"
	case KeyTab:
		return "tab"
	default:
		return "unknown"
	}
}

// Session is the autocomplete view of one editor. It is a value: every
// method returns a new Session and the receiver is left alone. The trigger is
// always recomputed from the current text and cursor, so nothing carried
// between events can go stale except the highlighted candidate.
type Session struct {
	resolver *Resolver

	Text     string
	Cursor   int
	State    State
	Selected int
}

// KeyResult says whether the key was consumed and, for accepts, what changed.
type KeyResult struct {
	Intercepted bool
	Edit        *Edit
}

func NewSession(resolver *Resolver) Session {
	return Session{resolver: resolver, State: State{Kind: KindIdle, Anchor: -1}}
}

// Sync re-evaluates the trigger for new text or a moved cursor. Editors call
// it on input, click and key-up alike.
func (s Session) Sync(ctx context.Context, text string, cursor int) Session {
	next := s
	next.Text = text
	next.State = s.resolver.Evaluate(ctx, text, cursor)
	next.Cursor = next.State.Cursor

	if next.State.Kind != s.State.Kind || next.State.Anchor != s.State.Anchor || next.State.Query != s.State.Query {
		next.Selected = 0
	}
	if n := next.State.CandidateCount(); next.Selected >= n {
		next.Selected = max(n-1, 0)
	}

	return next
}

// Key handles navigation keys. While idle nothing is intercepted, so Enter and
// Tab reach the editor untouched.
func (s Session) Key(key Key) (Session, KeyResult) {
	if !s.State.Triggered() {
		return s, KeyResult{}
	}

	n := s.State.CandidateCount()

	switch key {
	case KeyEscape:
		return s.idle(), KeyResult{Intercepted: true}
	case KeyUp:
		next := s
		if next.Selected > 0 {
			next.Selected--
		}
		return next, KeyResult{Intercepted: true}
	case KeyDown:
		next := s
		if next.Selected < n-1 {
			next.Selected++
		}
		return next, KeyResult{Intercepted: true}
	case KeyEnter, KeyTab:
		edit, ok := s.resolver.Accept(s.Text, s.State, s.Selected)
		if !ok {
			return s.idle(), KeyResult{}
		}
		next := s.idle()
		next.Text = edit.NewText
		next.Cursor = edit.NewCursor
		return next, KeyResult{Intercepted: true, Edit: &edit}
	default:
		return s, KeyResult{}
	}
}

func (s Session) idle() Session {
	next := s
	next.State = State{Kind: KindIdle, Anchor: -1, Cursor: s.Cursor}
	next.Selected = 0
	return next
}
