package completion_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/go-dyntag/pkg/catalog"
	"github.com/walteh/go-dyntag/pkg/completion"
	"gitlab.com/tozd/go/errors"
)

func fixtureCatalog() *catalog.Static {
	return &catalog.Static{
		Tags: []catalog.TagDescriptor{
			{Group: "post", Key: "title", Label: "Post Title", Breadcrumb: "Post › Title"},
			{Group: "post", Key: "date", Label: "Post Date", Breadcrumb: "Post › Date"},
			{Group: "site", Key: "name", Label: "Site Name", Breadcrumb: "Site › Name"},
			{Group: "author", Key: "name", Label: "Author Name", Breadcrumb: "Author › Name"},
		},
		Modifiers: []catalog.ModifierDescriptor{
			{Key: "upper", Label: "Uppercase", Category: "text"},
			{Key: "truncate", Label: "Truncate", Category: "text", Args: []catalog.ArgDescriptor{{Label: "length", Type: "number"}}},
			{Key: "date", Label: "Format Date", Category: "date"},
			{Key: "then", Label: "Then", Category: "control"},
		},
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.TraceLevel).WithContext(context.Background())
}

func modifierKeys(mods []catalog.ModifierDescriptor) []string {
	keys := make([]string, len(mods))
	for i, m := range mods {
		keys[i] = m.Key
	}
	return keys
}

func tagPaths(tags []catalog.TagDescriptor) []string {
	paths := make([]string, len(tags))
	for i, t := range tags {
		paths[i] = t.Path()
	}
	return paths
}

func TestEvaluate(t *testing.T) {
	ctx := testContext(t)
	r := completion.NewResolver(ctx, fixtureCatalog())

	tests := []struct {
		name      string
		text      string
		cursor    int
		kind      completion.Kind
		query     string
		group     string
		anchor    int
		tags      []string
		modifiers []string
	}{
		{
			name:   "tag trigger filters by group",
			text:   "@pos",
			cursor: 5,
			kind:   completion.KindTag,
			query:  "pos",
			anchor: 0,
			tags:   []string{"@post(title)", "@post(date)"},
		},
		{
			name:   "tag trigger matches labels case insensitively",
			text:   "Hi @NAME",
			cursor: 8,
			kind:   completion.KindTag,
			query:  "NAME",
			anchor: 3,
			tags:   []string{"@site(name)", "@author(name)"},
		},
		{
			name:   "empty tag query lists everything",
			text:   "@",
			cursor: 1,
			kind:   completion.KindTag,
			anchor: 0,
			tags:   []string{"@post(title)", "@post(date)", "@site(name)", "@author(name)"},
		},
		{
			name:      "modifier trigger unions group methods",
			text:      "@post(title).",
			cursor:    13,
			kind:      completion.KindModifier,
			group:     "post",
			anchor:    12,
			modifiers: []string{"meta", "upper", "truncate", "date"},
		},
		{
			name:      "site methods",
			text:      "@site(name).",
			cursor:    12,
			kind:      completion.KindModifier,
			group:     "site",
			anchor:    11,
			modifiers: []string{"query_var", "math", "upper", "truncate", "date"},
		},
		{
			name:      "modifier query filters",
			text:      "@post(title).tru",
			cursor:    16,
			kind:      completion.KindModifier,
			query:     "tru",
			group:     "post",
			anchor:    12,
			modifiers: []string{"truncate"},
		},
		{
			name:      "reserved keys are never suggested",
			text:      "@post(title).the",
			cursor:    16,
			kind:      completion.KindModifier,
			query:     "the",
			group:     "post",
			anchor:    12,
			modifiers: []string{},
		},
		{
			name:   "plain text is idle",
			text:   "End of sentence.",
			cursor: 16,
			kind:   completion.KindIdle,
			anchor: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Evaluate(ctx, tt.text, tt.cursor)

			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.query, got.Query)
			assert.Equal(t, tt.group, got.Group)
			assert.Equal(t, tt.anchor, got.Anchor)

			switch tt.kind {
			case completion.KindTag:
				assert.Equal(t, tt.tags, tagPaths(got.Tags))
				assert.Empty(t, got.Modifiers)
			case completion.KindModifier:
				assert.Equal(t, tt.modifiers, modifierKeys(got.Modifiers))
				assert.Empty(t, got.Tags)
			default:
				assert.False(t, got.Triggered())
				assert.Zero(t, got.CandidateCount())
			}
		})
	}
}

func TestHiddenModifiers(t *testing.T) {
	ctx := testContext(t)
	r := completion.NewResolver(ctx, fixtureCatalog(), completion.WithHiddenModifiers("upper", "meta"))

	assert.Equal(t, []string{"truncate", "date"}, modifierKeys(r.ModifierCandidates("post", "")))
}

func TestAccept(t *testing.T) {
	ctx := testContext(t)
	r := completion.NewResolver(ctx, fixtureCatalog())

	t.Run("tag", func(t *testing.T) {
		state := r.Evaluate(ctx, "Hello @pos", 10)
		edit, ok := r.Accept("Hello @pos", state, 0)
		require.True(t, ok)
		assert.Equal(t, completion.Edit{NewText: "Hello @post(title)", NewCursor: 18}, edit)
	})

	t.Run("modifier", func(t *testing.T) {
		state := r.Evaluate(ctx, "@post(title).tru", 16)
		edit, ok := r.Accept("@post(title).tru", state, 0)
		require.True(t, ok)
		assert.Equal(t, completion.Edit{NewText: "@post(title).truncate()", NewCursor: 22}, edit)
	})

	t.Run("modifier splice starts at the last dot before the cursor", func(t *testing.T) {
		state := completion.State{
			Kind:      completion.KindModifier,
			Group:     "post",
			Cursor:    15,
			Modifiers: []catalog.ModifierDescriptor{{Key: "upper"}},
		}
		edit, ok := r.Accept("@post(title).up", state, 0)
		require.True(t, ok)
		assert.Equal(t, completion.Edit{NewText: "@post(title).upper()", NewCursor: 19}, edit)
	})

	t.Run("out of range", func(t *testing.T) {
		state := r.Evaluate(ctx, "@pos", 4)
		_, ok := r.Accept("@pos", state, 5)
		assert.False(t, ok)
		_, ok = r.Accept("@pos", state, -1)
		assert.False(t, ok)
	})

	t.Run("idle", func(t *testing.T) {
		state := r.Evaluate(ctx, "plain", 5)
		_, ok := r.Accept("plain", state, 0)
		assert.False(t, ok)
	})
}

type failingProvider struct{}

func (failingProvider) ListTags(ctx context.Context) ([]catalog.TagDescriptor, error) {
	return nil, errors.New("catalog offline")
}

func (failingProvider) ListModifiers(ctx context.Context) ([]catalog.ModifierDescriptor, error) {
	return nil, errors.New("catalog offline")
}

func TestResolverDegradesWhenCatalogFails(t *testing.T) {
	ctx := testContext(t)
	r := completion.NewResolver(ctx, failingProvider{})

	tag := r.Evaluate(ctx, "@po", 3)
	assert.Equal(t, completion.KindTag, tag.Kind)
	assert.Empty(t, tag.Tags)

	mod := r.Evaluate(ctx, "@post(title).", 13)
	assert.Equal(t, completion.KindModifier, mod.Kind)
	assert.Equal(t, []string{"meta"}, modifierKeys(mod.Modifiers))
}
