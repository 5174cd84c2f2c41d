package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLabelsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List the configured label catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := cfg.LabelCatalog()
			if err != nil {
				return err
			}
			labels := cat.Labels()
			if jsonOutput {
				return writeJSON(cmd, labels)
			}

			rows := make([][]string, 0, len(labels))
			for i, l := range labels {
				rows = append(rows, []string{strconv.Itoa(i + 1), l.Name, l.Color})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"#", "Name", "Color"}, rows, []columnAlignment{alignRight}))
			fmt.Fprintf(out, "Unknown labels: %s\n", cfg.Catalog.UnknownLabels)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the catalog as JSON")
	return cmd
}
