package hover_tag

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/go-dyntag/cmd/dyntag/config"
	"github.com/walteh/go-dyntag/pkg/hover"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	globals *config.Globals
	text    string
	cursor  int
	at      string
}

func NewHoverCommand(globals *config.Globals) *cobra.Command {
	me := &Handler{globals: globals}

	cmd := &cobra.Command{
		Use:   "hover [file]",
		Short: "describe the tag or modifier under a cursor as markdown",
	}

	cmd.Args = cobra.MaximumNArgs(1)
	cmd.Flags().StringVar(&me.text, "text", "", "expression to inspect instead of a file")
	cmd.Flags().IntVar(&me.cursor, "cursor", 0, "byte offset of the cursor")
	cmd.Flags().StringVar(&me.at, "at", "", "one-based line:col of the cursor, overrides --cursor")

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

	info, err := hover.BuildHoverResponse(ctx, input, cursor, resolver.Snapshot())
	if err != nil {
		return errors.Errorf("building hover: %w", err)
	}
	if info == nil {
		return nil
	}

	if _, err := io.WriteString(out, strings.Join(info.Content, "\n\n")+"\n"); err != nil {
		return errors.Errorf("writing output: %w", err)
	}
	return nil
}
