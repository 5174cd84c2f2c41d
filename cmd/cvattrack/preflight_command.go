package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cvattrack/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check directories and external tools used by export",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cfg)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, r := range results {
				fmt.Fprintf(out, "%-4s %s: %s\n", statusMarker(r.Passed, colorize), r.Name, r.Detail)
			}
			if err := preflight.Failures(results); err != nil {
				return fmt.Errorf("preflight failed: %w", err)
			}
			return nil
		},
	}
}
