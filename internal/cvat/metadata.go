package cvat

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Metadata carries the static task fields written into the <meta> block.
type Metadata struct {
	TaskID     int
	TaskName   string
	Mode       string
	Overlap    int
	Bugtracker string
	Subset     string
	SegmentID  int
	// SegmentURL may contain "{job}", replaced with SegmentID.
	SegmentURL string
	Owner      Owner
	Assignee   string
	Width      int
	Height     int
	// Now stamps created, updated and dumped.
	Now time.Time
}

// Owner identifies the task owner.
type Owner struct {
	Username string
	Email    string
}

// DefaultMetadata returns the task fields used when nothing is configured.
func DefaultMetadata() Metadata {
	return Metadata{
		TaskID:     1,
		TaskName:   "video_annotation",
		Mode:       "interpolation",
		Overlap:    5,
		Subset:     "Train",
		SegmentID:  1,
		SegmentURL: "http://localhost:8080/api/jobs/{job}",
		Width:      1280,
		Height:     720,
	}
}

func (m Metadata) validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("cvat: invalid original size %dx%d", m.Width, m.Height)
	}
	if strings.TrimSpace(m.TaskName) == "" {
		return fmt.Errorf("cvat: task name is required")
	}
	if m.Now.IsZero() {
		return fmt.Errorf("cvat: metadata timestamp is required")
	}
	return nil
}

func (m Metadata) segmentURL() string {
	return strings.ReplaceAll(m.SegmentURL, "{job}", strconv.Itoa(m.SegmentID))
}

// FormatTimestamp renders t in UTC as a naive ISO-8601 timestamp. Microseconds
// are included only when non-zero.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/1000 == 0 {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format("2006-01-02T15:04:05.000000")
}
