package history

import "time"

// Status is the terminal state of an export run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Entry is one recorded export run.
type Entry struct {
	ID             string    `json:"id"`
	DetectionsPath string    `json:"detections_path"`
	OutputPath     string    `json:"output_path,omitempty"`
	VideoPath      string    `json:"video_path,omitempty"`
	FrameCount     int       `json:"frame_count"`
	FrameSource    string    `json:"frame_source,omitempty"`
	TrackCount     int       `json:"track_count"`
	BoxCount       int       `json:"box_count"`
	Status         Status    `json:"status"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}
