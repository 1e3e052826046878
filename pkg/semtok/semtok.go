package semtok

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/go-dyntag/pkg/parser"
	"github.com/walteh/go-dyntag/pkg/position"
)

// GetTokensForText returns semantic tokens for the whole text, in source order.
//
//	Example:
//	   tokens, err := GetTokensForText(ctx, "Hi @post(title).upper()")
//	   if err != nil {
//	       return err
//	   }
func GetTokensForText(ctx context.Context, content string) ([]Token, error) {
	out := make([]Token, 0)

	for _, tok := range parser.Parse(content) {
		switch t := tok.(type) {
		case parser.TextToken:
			out = append(out, Token{Type: TokenText, Range: t.Position()})
		case parser.TagToken:
			tagTokens, err := visitTag(t)
			if err != nil {
				return nil, err
			}
			out = append(out, tagTokens...)
		}
	}

	zerolog.Ctx(ctx).Trace().Int("tokens", len(out)).Msg("semantic tokens generated")

	return out, nil
}

// GetTokensForRange returns the tokens overlapping ranged. Tags are always
// lexed whole so a range that cuts a tag still classifies it correctly.
func GetTokensForRange(ctx context.Context, content string, ranged position.RawPosition) ([]Token, error) {
	all, err := GetTokensForText(ctx, content)
	if err != nil {
		return nil, err
	}

	out := make([]Token, 0, len(all))
	for _, t := range all {
		if t.Range.HasRangeOverlapWith(ranged) {
			out = append(out, t)
		}
	}
	return out, nil
}
