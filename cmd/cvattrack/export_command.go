package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cvattrack/internal/export"
)

type exportFlags struct {
	output        string
	video         string
	frames        int
	stride        int
	format        string
	validateBoxes bool
	unknownLabels string
	jsonOutput    bool
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export <detections>...",
		Short: "Write CVAT video annotation XML for detection files",
		Long: `Builds tracks from each detection file and writes a CVAT 1.1 "for video"
annotation document. Outputs default to <paths.output_dir>/<name>.xml, or the
detection file's directory when no output directory is configured.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := buildRequests(args, flags)
			if err != nil {
				return err
			}

			exp, closeFn, err := ctx.newExporter()
			if err != nil {
				return err
			}
			defer closeFn()

			results, runErr := exp.RunBatch(cmd.Context(), reqs)
			if flags.jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				printExportResults(cmd, results)
			}
			if runErr != nil {
				if hint := export.Hint(runErr); hint != "" {
					return fmt.Errorf("export: %w (hint: %s)", runErr, hint)
				}
				return fmt.Errorf("export: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file, or directory when exporting several files")
	cmd.Flags().StringVar(&flags.video, "video", "", "Source video probed with ffprobe for the frame count")
	cmd.Flags().IntVar(&flags.frames, "frames", 0, "Total frame count of the video (overrides probing)")
	cmd.Flags().IntVar(&flags.stride, "stride", 0, "Frames between consecutive detection entries (default detections.stride)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Detection encoding: json or jsonl (default from extension)")
	cmd.Flags().BoolVar(&flags.validateBoxes, "validate-boxes", false, "Reject non-finite or inverted boxes")
	cmd.Flags().StringVar(&flags.unknownLabels, "unknown-labels", "", "Labels missing from the catalog: fail, drop or declare")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print results as JSON")
	return cmd
}

func buildRequests(args []string, flags exportFlags) ([]export.Request, error) {
	if len(args) > 1 && flags.video != "" {
		return nil, errors.New("--video applies to a single detections file")
	}
	if len(args) > 1 && flags.frames > 0 {
		return nil, errors.New("--frames applies to a single detections file")
	}
	if flags.frames < 0 {
		return nil, fmt.Errorf("--frames must be positive (got %d)", flags.frames)
	}

	outputDir, outputFile, err := splitOutput(flags.output, len(args))
	if err != nil {
		return nil, err
	}

	reqs := make([]export.Request, 0, len(args))
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		req := export.Request{
			DetectionsPath: path,
			OutputPath:     outputFile,
			VideoPath:      flags.video,
			FrameCount:     flags.frames,
			Stride:         flags.stride,
			Format:         flags.format,
			ValidateBoxes:  flags.validateBoxes,
			UnknownLabels:  flags.unknownLabels,
		}
		if outputDir != "" {
			req.OutputPath = export.DefaultOutputPath(outputDir, path)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// splitOutput interprets --output as a directory for batches or when it names
// an existing directory, and as a file path otherwise.
func splitOutput(output string, inputs int) (dir, file string, err error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return "", "", nil
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		return "", "", fmt.Errorf("resolve --output: %w", err)
	}
	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
		return abs, "", nil
	}
	if inputs > 1 || strings.HasSuffix(output, string(filepath.Separator)) {
		return abs, "", nil
	}
	return "", abs, nil
}

func printExportResults(cmd *cobra.Command, results []export.Result) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for _, res := range results {
		switch {
		case res.RunID == "":
			// Cancelled before it started.
			continue
		case res.Error != "":
			fmt.Fprintf(out, "%s %s\n   %s\n", statusMarker(false, colorize), res.DetectionsPath, res.Error)
			continue
		}
		fmt.Fprintf(out, "%s %s -> %s (%d frames from %s, %d tracks, %d boxes)\n",
			statusMarker(true, colorize), res.DetectionsPath, res.OutputPath,
			res.FrameCount, res.FrameSource, res.Tracks, res.Boxes)
		if len(res.Dropped) > 0 {
			fmt.Fprintf(out, "   dropped labels: %s\n", strings.Join(res.Dropped, ", "))
		}
		if len(res.Declared) > 0 {
			fmt.Fprintf(out, "   declared labels: %s\n", strings.Join(res.Declared, ", "))
		}
	}
}
