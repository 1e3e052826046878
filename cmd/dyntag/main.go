package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	checkcmd "github.com/walteh/go-dyntag/cmd/dyntag/check"
	completecmd "github.com/walteh/go-dyntag/cmd/dyntag/complete"
	"github.com/walteh/go-dyntag/cmd/dyntag/config"
	formatcmd "github.com/walteh/go-dyntag/cmd/dyntag/format"
	hovercmd "github.com/walteh/go-dyntag/cmd/dyntag/hover-tag"
	tokenscmd "github.com/walteh/go-dyntag/cmd/dyntag/tokens"
)

func main() {
	if err := NewRootCommand(config.NewGlobals()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewRootCommand(globals *config.Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dyntag",
		Short: "parse, format and complete dynamic tag expressions",
	}

	cmd.PersistentFlags().StringVar(&globals.ConfigPath, "config", "", "config file (default: .dyntag.yaml, .dyntag.yml or .dyntag.hcl)")
	cmd.PersistentFlags().StringSliceVar(&globals.Catalog, "catalog", nil, "catalog file patterns, overrides the config")
	cmd.PersistentFlags().BoolVar(&globals.Debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&globals.JSON, "json", false, "machine readable output where supported")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ctx, err := globals.Context(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		cmd.SetContext(ctx)
		return nil
	}

	cmd.AddCommand(tokenscmd.NewTokensCommand(globals))
	cmd.AddCommand(formatcmd.NewFormatCommand(globals))
	cmd.AddCommand(completecmd.NewCompleteCommand(globals))
	cmd.AddCommand(hovercmd.NewHoverCommand(globals))
	cmd.AddCommand(checkcmd.NewCheckCommand(globals))

	info, ok := debug.ReadBuildInfo()
	if !ok {
		cmd.Version = "unknown"
	} else {
		cmd.Version = info.Main.Version
	}

	cmd.InitDefaultVersionFlag()

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	return cmd
}
