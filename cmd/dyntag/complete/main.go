package complete

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/go-dyntag/cmd/dyntag/config"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	globals *config.Globals
	text    string
	cursor  int
	at      string
	accept  int
}

func NewCompleteCommand(globals *config.Globals) *cobra.Command {
	me := &Handler{globals: globals}

	cmd := &cobra.Command{
		Use:   "complete [file]",
		Short: "print the autocomplete state at a cursor as JSON",
	}

	cmd.Args = cobra.MaximumNArgs(1)
	cmd.Flags().StringVar(&me.text, "text", "", "expression to complete instead of a file")
	cmd.Flags().IntVar(&me.cursor, "cursor", -1, "byte offset of the cursor (default: end of input)")
	cmd.Flags().StringVar(&me.at, "at", "", "one-based line:col of the cursor, overrides --cursor")
	cmd.Flags().IntVar(&me.accept, "accept", -1, "accept the candidate at this index and print the edit")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		input, err := me.globals.Input(args, me.text, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return me.Run(cmd.Context(), input, cmd.OutOrStdout())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, input string, out io.Writer) error {
	cursor, err := config.Cursor(input, me.cursor, me.at)
	if err != nil {
		return err
	}

	resolver, err := me.globals.Resolver(ctx)
	if err != nil {
		return err
	}

	state := resolver.Evaluate(ctx, input, cursor)

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	if me.accept >= 0 {
		edit, ok := resolver.Accept(input, state, me.accept)
		if !ok {
			return errors.Errorf("no %s candidate at index %d (%d available)", state.Kind, me.accept, state.CandidateCount())
		}
		if err := encoder.Encode(edit); err != nil {
			return errors.Errorf("failed to encode edit: %w", err)
		}
		return nil
	}

	if err := encoder.Encode(state); err != nil {
		return errors.Errorf("failed to encode completions: %w", err)
	}
	return nil
}
