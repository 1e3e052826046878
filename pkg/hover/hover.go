// Package hover provides functionality for generating hover information.
package hover

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/go-dyntag/pkg/catalog"
	"github.com/walteh/go-dyntag/pkg/parser"
	"github.com/walteh/go-dyntag/pkg/position"
	"github.com/walteh/go-dyntag/pkg/semtok"
	"gitlab.com/tozd/go/errors"
)

// HoverInfo represents the information to be displayed in a hover tooltip
type HoverInfo struct {
	// Content is the markdown content to display
	Content []string
	// Position is the span of text this hover applies to
	Position position.RawPosition
}

// BuildHoverResponse describes whatever is under cursor. It returns nil when
// the cursor is not on a tag. Hovering a modifier key describes the modifier;
// anywhere else on the tag describes the tag.
func BuildHoverResponse(ctx context.Context, text string, cursor int, snapshot *catalog.Snapshot) (*HoverInfo, error) {
	if snapshot == nil {
		return nil, errors.New("snapshot cannot be nil")
	}

	parsed := parser.Parse(text)
	idx := parser.ActiveTagIndex(parsed, cursor)
	if idx < 0 {
		return nil, nil
	}
	tag := parser.Tags(parsed)[idx]

	tokens, err := semtok.GetTokensForRange(ctx, text, position.NewBasicPosition("", cursor))
	if err != nil {
		return nil, errors.Errorf("classifying tag: %w", err)
	}

	for _, st := range tokens {
		if st.Type != semtok.TokenModifier {
			continue
		}
		for _, mod := range tag.Modifiers {
			if mod.Key != st.Range.Text {
				continue
			}
			zerolog.Ctx(ctx).Debug().Str("modifier", mod.Key).Str("group", tag.Group).Msg("hovering modifier")
			return FormatModifierHover(tag, mod, snapshot), nil
		}
	}

	zerolog.Ctx(ctx).Debug().Str("tag", tag.Raw).Msg("hovering tag")
	return FormatTagHover(tag, snapshot), nil
}

// FormatTagHover renders the catalog entry of tag and the chain applied to it.
func FormatTagHover(tag parser.TagToken, snapshot *catalog.Snapshot) *HoverInfo {
	var sb strings.Builder

	sb.WriteString("### Tag\n\n")

	desc, known := snapshot.FindTag(tag.Group, tag.Property)
	if known {
		sb.WriteString(fmt.Sprintf("**%s**", labelOr(desc.Label, desc.Path())))
		if desc.Breadcrumb != "" {
			sb.WriteString(fmt.Sprintf(" · %s", desc.Breadcrumb))
		}
		sb.WriteString("\n")
	} else if snapshot.HasGroup(tag.Group) {
		sb.WriteString(fmt.Sprintf("`%s` has no catalog entry for `%s`\n", tag.Group, tag.Property))
	} else {
		sb.WriteString(fmt.Sprintf("unknown group `%s`\n", tag.Group))
	}

	if len(tag.Modifiers) > 0 {
		sb.WriteString("\n### Modifiers\n\n")
		for _, mod := range tag.Modifiers {
			sb.WriteString(fmt.Sprintf("- `%s`", strings.TrimPrefix(mod.String(), ".")))
			if md, ok := snapshot.FindModifier(tag.Group, mod.Key); ok && md.Label != "" {
				sb.WriteString(" " + md.Label)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n### Canonical\n\n```\n" + tag.Canonical() + "\n```")

	return &HoverInfo{
		Content:  []string{sb.String()},
		Position: tag.Position(),
	}
}

// FormatModifierHover renders the signature and description of one modifier
// as used on tag.
func FormatModifierHover(tag parser.TagToken, mod parser.Modifier, snapshot *catalog.Snapshot) *HoverInfo {
	var sb strings.Builder

	sb.WriteString("### Modifier\n\n")

	md, known := snapshot.FindModifier(tag.Group, mod.Key)
	if !known {
		sb.WriteString(fmt.Sprintf("unknown modifier `%s`\n", mod.Key))
	} else {
		sb.WriteString("```\n" + md.Signature() + "\n```\n")
		if md.Label != "" {
			sb.WriteString("\n**" + md.Label + "**")
			if md.Category != "" {
				sb.WriteString(" (" + md.Category + ")")
			}
			sb.WriteString("\n")
		}
		if md.Description != "" {
			sb.WriteString("\n" + md.Description + "\n")
		}
		if catalog.IsReserved(mod.Key) {
			sb.WriteString("\ncontrol flow modifier, never suggested\n")
		}
	}

	sb.WriteString("\n### Usage\n\n```\n" + strings.TrimPrefix(mod.String(), ".") + "\n```")

	return &HoverInfo{
		Content:  []string{sb.String()},
		Position: tag.Position(),
	}
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}
