package tokens

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/go-dyntag/cmd/dyntag/config"
	"github.com/walteh/go-dyntag/pkg/parser"
	"github.com/walteh/go-dyntag/pkg/semtok"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	globals  *config.Globals
	text     string
	semantic bool
}

func NewTokensCommand(globals *config.Globals) *cobra.Command {
	me := &Handler{globals: globals}

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "print the parsed tokens of an expression as JSON",
	}

	cmd.Args = cobra.MaximumNArgs(1)
	cmd.Flags().StringVar(&me.text, "text", "", "expression to parse instead of a file")
	cmd.Flags().BoolVar(&me.semantic, "semantic", false, "print semantic highlighting tokens instead")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		input, err := me.globals.Input(args, me.text, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return me.Run(cmd.Context(), input, cmd.OutOrStdout())
	}

	return cmd
}

type modifierOutput struct {
	Key  string            `json:"key"`
	Args []parser.Argument `json:"args,omitempty"`
}

type tokenOutput struct {
	Kind      string           `json:"kind"`
	Raw       string           `json:"raw"`
	Start     int              `json:"start"`
	End       int              `json:"end"`
	Group     string           `json:"group,omitempty"`
	Property  *string          `json:"property,omitempty"`
	Modifiers []modifierOutput `json:"modifiers,omitempty"`
	Canonical string           `json:"canonical,omitempty"`
}

type semanticOutput struct {
	Type   string `json:"type"`
	Flags  string `json:"flags,omitempty"`
	Text   string `json:"text"`
	Offset int    `json:"offset"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (me *Handler) Run(ctx context.Context, input string, out io.Writer) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	if me.semantic {
		toks, err := semtok.GetTokensForText(ctx, input)
		if err != nil {
			return errors.Errorf("classifying tokens: %w", err)
		}
		res := make([]semanticOutput, len(toks))
		for i, t := range toks {
			line, col := t.Range.GetLineAndColumn(input)
			res[i] = semanticOutput{
				Type:   t.Type.String(),
				Text:   t.Range.Text,
				Offset: t.Range.Offset,
				Line:   line,
				Column: col,
			}
			if t.Flags != semtok.FlagNone {
				res[i].Flags = t.Flags.String()
			}
		}
		if err := encoder.Encode(res); err != nil {
			return errors.Errorf("failed to encode tokens: %w", err)
		}
		return nil
	}

	toks := parser.Parse(input)
	res := make([]tokenOutput, 0, len(toks))
	for _, tok := range toks {
		switch t := tok.(type) {
		case parser.TextToken:
			res = append(res, tokenOutput{Kind: "text", Raw: t.Raw, Start: t.Start, End: t.End})
		case parser.TagToken:
			prop := t.Property
			o := tokenOutput{
				Kind:      "tag",
				Raw:       t.Raw,
				Start:     t.Start,
				End:       t.End,
				Group:     t.Group,
				Property:  &prop,
				Canonical: t.Canonical(),
			}
			for _, m := range t.Modifiers {
				o.Modifiers = append(o.Modifiers, modifierOutput{Key: m.Key, Args: m.Args})
			}
			res = append(res, o)
		}
	}

	if err := encoder.Encode(res); err != nil {
		return errors.Errorf("failed to encode tokens: %w", err)
	}
	return nil
}
