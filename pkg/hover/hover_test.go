package hover_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/go-dyntag/pkg/catalog"
	"github.com/walteh/go-dyntag/pkg/hover"
	"github.com/walteh/go-dyntag/pkg/position"
)

func testSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Tags: []catalog.TagDescriptor{
			{Group: "post", Key: "title", Label: "Post Title", Breadcrumb: "Post › Title"},
			{Group: "site", Key: "name"},
		},
		Modifiers: []catalog.ModifierDescriptor{
			{
				Key:         "truncate",
				Label:       "Truncate",
				Category:    "text",
				Args:        []catalog.ArgDescriptor{{Label: "length", Type: "number"}},
				Description: "Shortens the value.",
			},
			{Key: "upper", Label: "Uppercase"},
		},
	}
}

func TestBuildHoverResponse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		cursor   int
		want     []string
		position position.RawPosition
	}{
		{
			name:   "known tag with modifiers",
			text:   "Hi @post(title).truncate(20).upper()",
			cursor: 5,
			want: []string{
				"### Tag\n\n" +
					"**Post Title** · Post › Title\n" +
					"\n### Modifiers\n\n" +
					"- `truncate(20)` Truncate\n" +
					"- `upper()` Uppercase\n" +
					"\n### Canonical\n\n```\n@post(title).truncate(20).upper()\n```",
			},
			position: position.NewBasicPosition("@post(title).truncate(20).upper()", 3),
		},
		{
			name:   "cursor on the tag start",
			text:   "Hi @site(name)",
			cursor: 3,
			want: []string{
				"### Tag\n\n" +
					"**@site(name)**\n" +
					"\n### Canonical\n\n```\n@site(name)\n```",
			},
			position: position.NewBasicPosition("@site(name)", 3),
		},
		{
			name:   "modifier key",
			text:   "@post(title).truncate(20)",
			cursor: 15,
			want: []string{
				"### Modifier\n\n" +
					"```\ntruncate(length)\n```\n" +
					"\n**Truncate** (text)\n" +
					"\nShortens the value.\n" +
					"\n### Usage\n\n```\ntruncate(20)\n```",
			},
			position: position.NewBasicPosition("@post(title).truncate(20)", 0),
		},
		{
			name:   "reserved modifier",
			text:   "@post(title).else('none')",
			cursor: 14,
			want: []string{
				"### Modifier\n\n" +
					"```\nelse(value)\n```\n" +
					"\n**Else** (control)\n" +
					"\nValue used when the tag resolves to nothing.\n" +
					"\ncontrol flow modifier, never suggested\n" +
					"\n### Usage\n\n```\nelse('none')\n```",
			},
			position: position.NewBasicPosition("@post(title).else('none')", 0),
		},
		{
			name:   "unknown group",
			text:   "@nope(x)",
			cursor: 2,
			want: []string{
				"### Tag\n\n" +
					"unknown group `nope`\n" +
					"\n### Canonical\n\n```\n@nope(x)\n```",
			},
			position: position.NewBasicPosition("@nope(x)", 0),
		},
		{
			name:   "known group, unknown key",
			text:   "@author(bio)",
			cursor: 2,
			want: []string{
				"### Tag\n\n" +
					"`author` has no catalog entry for `bio`\n" +
					"\n### Canonical\n\n```\n@author(bio)\n```",
			},
			position: position.NewBasicPosition("@author(bio)", 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hover.BuildHoverResponse(context.Background(), tt.text, tt.cursor, testSnapshot())
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Content)
			assert.Equal(t, tt.position, got.Position)
		})
	}
}

func TestBuildHoverResponseOutsideTags(t *testing.T) {
	got, err := hover.BuildHoverResponse(context.Background(), "Hi there @post(title)", 1, testSnapshot())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBuildHoverResponseNilSnapshot(t *testing.T) {
	_, err := hover.BuildHoverResponse(context.Background(), "@post(title)", 1, nil)
	require.Error(t, err)
}
