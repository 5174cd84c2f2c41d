package config

import "cvattrack/internal/catalog"

const (
	defaultLogDir        = "~/.local/share/cvattrack/logs"
	defaultHistoryDB     = "~/.local/share/cvattrack/history.db"
	defaultTaskID        = 1
	defaultTaskName      = "video_annotation"
	defaultTaskMode      = "interpolation"
	defaultTaskOverlap   = 5
	defaultTaskSubset    = "Train"
	defaultSegmentID     = 1
	defaultSegmentURL    = "http://localhost:8080/api/jobs/{job}"
	defaultWidth         = 1280
	defaultHeight        = 720
	defaultUnknownLabels = "fail"
	defaultLabelColor    = "#b0b0b0"
	defaultFFprobe       = "ffprobe"
	defaultWorkers       = 4
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	labels := make([]catalog.Label, len(catalog.DefaultLabels))
	copy(labels, catalog.DefaultLabels)
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Task: Task{
			ID:         defaultTaskID,
			Name:       defaultTaskName,
			Mode:       defaultTaskMode,
			Overlap:    defaultTaskOverlap,
			Subset:     defaultTaskSubset,
			SegmentID:  defaultSegmentID,
			SegmentURL: defaultSegmentURL,
			Width:      defaultWidth,
			Height:     defaultHeight,
		},
		Catalog: Catalog{
			UnknownLabels: defaultUnknownLabels,
			DefaultColor:  defaultLabelColor,
			Labels:        labels,
		},
		Detections: Detections{
			Stride: 1,
		},
		Export: Export{
			Workers:       defaultWorkers,
			FFprobeBinary: defaultFFprobe,
			RecordHistory: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
