package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cvattrack/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			var entries []history.Entry
			if store != nil {
				defer store.Close()
				if entries, err = store.List(cmd.Context(), limit); err != nil {
					return err
				}
			}
			if jsonOutput {
				if entries == nil {
					entries = []history.Entry{}
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No exports recorded")
				return nil
			}
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					shortID(e.ID),
					e.FinishedAt.Local().Format(time.DateTime),
					statusMarker(e.Status == history.StatusCompleted, colorize),
					e.DetectionsPath,
					e.OutputPath,
					strconv.Itoa(e.FrameCount),
					strconv.Itoa(e.TrackCount),
					strconv.Itoa(e.BoxCount),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Finished", "Status", "Detections", "Output", "Frames", "Tracks", "Boxes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
