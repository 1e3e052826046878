package check

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/walteh/go-dyntag/cmd/dyntag/config"
	"github.com/walteh/go-dyntag/pkg/diagnostic"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	globals *config.Globals
	text    string
	strict  bool
}

func NewCheckCommand(globals *config.Globals) *cobra.Command {
	me := &Handler{globals: globals}

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "report unknown groups, modifiers and malformed tags",
	}

	cmd.Args = cobra.MaximumNArgs(1)
	cmd.Flags().StringVar(&me.text, "text", "", "expression to check instead of a file")
	cmd.Flags().BoolVar(&me.strict, "strict", false, "fail on warnings too")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		input, err := me.globals.Input(args, me.text, cmd.InOrStdin())
		if err != nil {
			return err
		}

		name := "input"
		if len(args) > 0 && args[0] != "-" && me.text == "" {
			name = args[0]
		}

		return me.Run(cmd.Context(), name, input, cmd.OutOrStdout())
	}

	return cmd
}

var severityColors = map[diagnostic.DiagnosticSeverity]*color.Color{
	diagnostic.Error:   color.New(color.FgRed, color.Bold),
	diagnostic.Warning: color.New(color.FgYellow),
	diagnostic.Info:    color.New(color.FgBlue),
	diagnostic.Hint:    color.New(color.FgCyan, color.Faint),
}

func (me *Handler) Run(ctx context.Context, name, input string, out io.Writer) error {
	resolver, err := me.globals.Resolver(ctx)
	if err != nil {
		return err
	}

	diags, err := diagnostic.NewDefaultGenerator().Generate(ctx, input, resolver.Snapshot())
	if err != nil {
		return errors.Errorf("generating diagnostics: %w", err)
	}

	if me.globals.JSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(diags); err != nil {
			return errors.Errorf("failed to encode diagnostics: %w", err)
		}
	} else {
		faint := color.New(color.Faint)
		for _, d := range diags.All() {
			sev := severityColors[d.Severity].Sprint(string(d.Severity))
			loc := faint.Sprintf("%s:%d:%d:", name, d.Line+1, d.Column+1)
			if _, err := fmt.Fprintf(out, "%s %s: %s\n", loc, sev, d.Message); err != nil {
				return errors.Errorf("writing output: %w", err)
			}
		}
	}

	if n := len(diags.Errors); n > 0 {
		return errors.Errorf("%s: %d error(s)", name, n)
	}
	if me.strict && len(diags.Warnings) > 0 {
		return errors.Errorf("%s: %d warning(s)", name, len(diags.Warnings))
	}
	return nil
}
