package export

import (
	"path/filepath"
	"strings"
	"time"

	"cvattrack/internal/cvat"
	"cvattrack/internal/detection"
	"cvattrack/internal/tracks"
)

// Request describes one detection file to export.
type Request struct {
	DetectionsPath string
	// OutputPath defaults to <output_dir>/<stem>.xml, or the detections
	// directory when no output directory is configured.
	OutputPath string
	// VideoPath is probed for the frame count when FrameCount is unset.
	VideoPath string
	// FrameCount <= 0 means resolve automatically.
	FrameCount int
	// Stride <= 0 uses the configured stride.
	Stride int
	// Format overrides the configured and extension-derived encoding.
	Format string
	// ValidateBoxes enables geometry checks in addition to the configured default.
	ValidateBoxes bool
	// UnknownLabels overrides the configured policy when non-empty.
	UnknownLabels string
}

// FrameSource names where a run's frame count came from.
type FrameSource string

const (
	FrameSourceExplicit FrameSource = "explicit"
	FrameSourceVideo    FrameSource = "video"
	FrameSourceDecoded  FrameSource = "decoded"
)

// Result reports the outcome of a completed export.
type Result struct {
	RunID          string        `json:"run_id"`
	DetectionsPath string        `json:"detections_path"`
	OutputPath     string        `json:"output_path"`
	VideoPath      string        `json:"video_path,omitempty"`
	FrameCount     int           `json:"frame_count"`
	FrameSource    FrameSource   `json:"frame_source"`
	DecodedFrames  int           `json:"decoded_frames"`
	Tracks         int           `json:"tracks"`
	Boxes          int           `json:"boxes"`
	Dropped        []string      `json:"dropped_labels,omitempty"`
	Declared       []string      `json:"declared_labels,omitempty"`
	Duration       time.Duration `json:"duration"`
	Error          string        `json:"error,omitempty"`
}

// Inspection is the track summary of a detection file without serialization.
type Inspection struct {
	DetectionsPath string                `json:"detections_path"`
	Frames         int                   `json:"frames"`
	Tracks         int                   `json:"tracks"`
	Boxes          int                   `json:"boxes"`
	Labels         []tracks.LabelSummary `json:"labels"`
}

type resolved struct {
	Request
	format  detection.Format
	stride  int
	policy  cvat.UnknownLabelPolicy
	probing bool
}

// DefaultOutputPath mirrors the detections file name with an .xml extension.
func DefaultOutputPath(outputDir, detectionsPath string) string {
	base := filepath.Base(detectionsPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if outputDir == "" {
		outputDir = filepath.Dir(detectionsPath)
	}
	return filepath.Join(outputDir, stem+".xml")
}
