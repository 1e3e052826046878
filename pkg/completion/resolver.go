package completion

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/go-dyntag/pkg/catalog"
	"github.com/walteh/go-dyntag/pkg/position"
)

type Kind uint8

const (
	KindIdle Kind = iota
	KindTag
	KindModifier
)

func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindModifier:
		return "modifier"
	default:
		return "idle"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// State is what the editor should show for one (text, cursor) pair.
type State struct {
	Kind   Kind   `json:"kind"`
	Query  string `json:"query,omitempty"`
	Group  string `json:"group,omitempty"`
	Anchor int    `json:"anchor"`
	Cursor int    `json:"cursor"`

	Tags      []catalog.TagDescriptor      `json:"tags,omitempty"`
	Modifiers []catalog.ModifierDescriptor `json:"modifiers,omitempty"`
}

func (s State) Triggered() bool {
	return s.Kind != KindIdle
}

// CandidateCount is the length of whichever candidate list the state carries.
func (s State) CandidateCount() int {
	switch s.Kind {
	case KindTag:
		return len(s.Tags)
	case KindModifier:
		return len(s.Modifiers)
	default:
		return 0
	}
}

// Resolver answers trigger and candidate questions against one catalog snapshot.
// It holds no editing state; every call gets the full text and cursor.
type Resolver struct {
	snapshot *catalog.Snapshot
	hidden   []string
}

type ResolverOption func(*Resolver)

// WithHiddenModifiers hides extra modifier keys from suggestion lists, on top of the reserved ones.
func WithHiddenModifiers(keys ...string) ResolverOption {
	return func(r *Resolver) {
		r.hidden = append(r.hidden, keys...)
	}
}

// NewResolver fetches the catalog from provider exactly once and keeps it for the session.
func NewResolver(ctx context.Context, provider catalog.Provider, opts ...ResolverOption) *Resolver {
	return NewResolverFromSnapshot(catalog.NewMemo(provider).Snapshot(ctx), opts...)
}

func NewResolverFromSnapshot(snapshot *catalog.Snapshot, opts ...ResolverOption) *Resolver {
	if snapshot == nil {
		snapshot = &catalog.Snapshot{}
	}
	r := &Resolver{snapshot: snapshot}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Snapshot() *catalog.Snapshot {
	return r.snapshot
}

// Evaluate classifies (text, cursor) as idle, a tag trigger or a modifier
// trigger and attaches the filtered candidates. The two triggers can never
// both match, so the order of the checks does not matter.
func (r *Resolver) Evaluate(ctx context.Context, text string, cursor int) State {
	cursor = position.Clamp(cursor, len(text))

	if tt := DetectTagTrigger(text, cursor); tt != nil {
		return State{
			Kind:   KindTag,
			Query:  tt.Query,
			Anchor: tt.AtIndex,
			Cursor: cursor,
			Tags:   r.TagCandidates(tt.Query),
		}
	}

	if mt := DetectModifierTrigger(text, cursor); mt != nil {
		state := State{
			Kind:      KindModifier,
			Query:     mt.Query,
			Group:     mt.Group,
			Anchor:    mt.DotIndex,
			Cursor:    cursor,
			Modifiers: r.ModifierCandidates(mt.Group, mt.Query),
		}
		zerolog.Ctx(ctx).Trace().Str("group", mt.Group).Str("query", mt.Query).Int("candidates", len(state.Modifiers)).Msg("modifier trigger")
		return state
	}

	return State{Kind: KindIdle, Anchor: -1, Cursor: cursor}
}

// TagCandidates filters the catalog's tags by a case-insensitive substring
// match on group, label or breadcrumb.
func (r *Resolver) TagCandidates(query string) []catalog.TagDescriptor {
	q := strings.ToLower(query)
	out := make([]catalog.TagDescriptor, 0, len(r.snapshot.Tags))
	for _, t := range r.snapshot.Tags {
		if containsFold(q, t.Group, t.Label, t.Breadcrumb) {
			out = append(out, t)
		}
	}
	return out
}

// ModifierCandidates lists the modifiers usable on group, including the
// group's own methods, filtered by key or label. Reserved modifiers never appear.
func (r *Resolver) ModifierCandidates(group, query string) []catalog.ModifierDescriptor {
	q := strings.ToLower(query)
	all := r.snapshot.ModifiersFor(group, r.hidden...)
	out := make([]catalog.ModifierDescriptor, 0, len(all))
	for _, m := range all {
		if containsFold(q, m.Key, m.Label) {
			out = append(out, m)
		}
	}
	return out
}

// Accept applies candidate index of state to text. It reports false when the
// state is idle or the index does not name a candidate.
func (r *Resolver) Accept(text string, state State, index int) (Edit, bool) {
	if index < 0 || index >= state.CandidateCount() {
		return Edit{}, false
	}

	switch state.Kind {
	case KindTag:
		return ApplyTagAcceptance(text, state.Anchor, state.Cursor, state.Tags[index].Path()), true
	case KindModifier:
		dot := LastDotIndex(text, state.Cursor)
		if dot < 0 {
			dot = state.Anchor
		}
		return ApplyModifierAcceptance(text, dot, state.Cursor, state.Modifiers[index].Code()), true
	default:
		return Edit{}, false
	}
}

func containsFold(lowerQuery string, fields ...string) bool {
	if lowerQuery == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerQuery) {
			return true
		}
	}
	return false
}
