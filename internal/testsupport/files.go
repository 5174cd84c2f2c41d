package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"cvattrack/internal/detection"
)

// WriteDetections encodes frames as a JSON array of arrays at path.
func WriteDetections(t testing.TB, path string, frames [][]detection.Detection) {
	t.Helper()

	if frames == nil {
		frames = [][]detection.Detection{}
	}
	for i := range frames {
		if frames[i] == nil {
			frames[i] = []detection.Detection{}
		}
	}
	data, err := json.Marshal(frames)
	if err != nil {
		t.Fatalf("marshal detections: %v", err)
	}
	WriteText(t, path, string(data))
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Box returns a detection with the given label and corner coordinates.
func Box(label string, xtl, ytl, xbr, ybr float64) detection.Detection {
	return detection.Detection{Label: label, Confidence: 0.9, XTL: xtl, YTL: ytl, XBR: xbr, YBR: ybr}
}

// ReadText returns the content of path.
func ReadText(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// ProbePayload renders an ffprobe JSON document with one video stream.
func ProbePayload(frames, width, height int) string {
	return fmt.Sprintf(`{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":%d,"height":%d,"nb_frames":"%d","avg_frame_rate":"25/1"}],"format":{"filename":"video.mp4","nb_streams":1,"duration":"60.0"}}`,
		width, height, frames)
}
