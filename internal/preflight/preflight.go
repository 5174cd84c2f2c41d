package preflight

import (
	"errors"
	"fmt"
	"strings"

	"cvattrack/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	if cfg.Export.ProbeVideo {
		results = append(results, CheckBinary("FFprobe", cfg.Export.FFprobeBinary, "Required for frame counts from source videos"))
	}

	return results
}

// Failures joins every failed result into a single error, or returns nil.
func Failures(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return errors.New(strings.Join(failed, "; "))
}
