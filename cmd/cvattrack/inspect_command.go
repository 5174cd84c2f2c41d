package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"cvattrack/internal/export"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var (
		stride     int
		format     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <detections>",
		Short: "Summarize the tracks built from a detection file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}
			exp, closeFn, err := ctx.newExporter()
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := exp.Inspect(cmd.Context(), export.Request{
				DetectionsPath: path,
				Stride:         stride,
				Format:         format,
			})
			if err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Detections: %s\n", report.DetectionsPath)
			fmt.Fprintf(out, "Frames: %d  Tracks: %d  Boxes: %d\n", report.Frames, report.Tracks, report.Boxes)
			if len(report.Labels) == 0 {
				fmt.Fprintln(out, "No detections")
				return nil
			}

			rows := make([][]string, 0, len(report.Labels))
			for _, s := range report.Labels {
				known := "yes"
				if !exp.Catalog().Contains(s.Label) {
					known = "no"
				}
				rows = append(rows, []string{
					s.Label,
					known,
					strconv.Itoa(s.Tracks),
					strconv.Itoa(s.Boxes),
					strconv.Itoa(s.FirstFrame),
					strconv.Itoa(s.LastFrame),
					strconv.Itoa(s.LongestRun),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Label", "In Catalog", "Tracks", "Boxes", "First", "Last", "Longest"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&stride, "stride", 0, "Frames between consecutive detection entries (default detections.stride)")
	cmd.Flags().StringVar(&format, "format", "", "Detection encoding: json or jsonl (default from extension)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the summary as JSON")
	return cmd
}
