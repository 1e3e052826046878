package format

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/go-dyntag/cmd/dyntag/config"
	"github.com/walteh/go-dyntag/pkg/diff"
	"github.com/walteh/go-dyntag/pkg/parser"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	globals *config.Globals
	text    string
	write   bool
	check   bool
	diff    bool
}

func NewFormatCommand(globals *config.Globals) *cobra.Command {
	me := &Handler{globals: globals}

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "rewrite every tag of an expression in canonical form",
	}

	cmd.Args = cobra.MaximumNArgs(1)
	cmd.Flags().StringVar(&me.text, "text", "", "expression to format instead of a file")
	cmd.Flags().BoolVarP(&me.write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVar(&me.check, "check", false, "fail when the input is not already canonical")
	cmd.Flags().BoolVarP(&me.diff, "diff", "d", false, "print a line diff instead of the formatted text")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if me.write && (len(args) == 0 || args[0] == "-") {
			return errors.New("--write needs a file argument")
		}

		input, err := me.globals.Input(args, me.text, cmd.InOrStdin())
		if err != nil {
			return err
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		}

		return me.Run(cmd.Context(), path, input, cmd.OutOrStdout())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, path, input string, out io.Writer) error {
	formatted := parser.Canonicalize(input)
	changed := formatted != input

	zerolog.Ctx(ctx).Debug().Str("path", path).Bool("changed", changed).Int("tags", parser.CountTags(input)).Msg("formatted expression")

	if me.check {
		if changed {
			return errors.Errorf("%s is not in canonical form", nameOr(path))
		}
		return nil
	}

	if me.diff {
		if _, err := io.WriteString(out, diff.Text(input, formatted)); err != nil {
			return errors.Errorf("writing output: %w", err)
		}
		return nil
	}

	if me.write {
		if !changed {
			return nil
		}
		if err := afero.WriteFile(me.globals.Fs, path, []byte(formatted), 0o644); err != nil {
			return errors.Errorf("writing %s: %w", path, err)
		}
		return nil
	}

	if _, err := io.WriteString(out, formatted); err != nil {
		return errors.Errorf("writing output: %w", err)
	}
	return nil
}

func nameOr(path string) string {
	if path == "" || path == "-" {
		return "input"
	}
	return path
}
