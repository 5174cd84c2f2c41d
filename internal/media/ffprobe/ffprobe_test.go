package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleProbe = `{
  "streams": [
    {"index": 0, "codec_type": "audio", "codec_name": "aac"},
    {"index": 1, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
     "nb_frames": "1500", "avg_frame_rate": "25/1", "duration": "60.000000"}
  ],
  "format": {"filename": "shelf.mp4", "nb_streams": 2, "duration": "60.020000", "format_name": "mov,mp4"}
}`

func TestParseVideoHelpers(t *testing.T) {
	result, err := Parse([]byte(sampleProbe))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	frames, err := result.VideoFrameCount()
	if err != nil {
		t.Fatalf("VideoFrameCount: %v", err)
	}
	if frames != 1500 {
		t.Fatalf("expected 1500 frames, got %d", frames)
	}
	w, h, err := result.VideoSize()
	if err != nil {
		t.Fatalf("VideoSize: %v", err)
	}
	if w != 1920 || h != 1080 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
	if result.DurationSeconds() != 60.02 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestVideoFrameCountFallsBackToDurationAndRate(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", AvgFrameRate: "30000/1001"}},
		Format:  Format{Duration: "10.01"},
	}
	frames, err := result.VideoFrameCount()
	if err != nil {
		t.Fatalf("VideoFrameCount: %v", err)
	}
	if frames != 300 {
		t.Fatalf("expected 300 frames, got %d", frames)
	}
}

func TestVideoFrameCountErrors(t *testing.T) {
	if _, err := (Result{}).VideoFrameCount(); !errors.Is(err, ErrNoVideoStream) {
		t.Fatalf("expected ErrNoVideoStream, got %v", err)
	}
	result := Result{Streams: []Stream{{CodecType: "video", AvgFrameRate: "0/0"}}}
	if _, err := result.VideoFrameCount(); err == nil {
		t.Fatal("expected error without duration or rate")
	}
	if _, _, err := result.VideoSize(); err == nil {
		t.Fatal("expected error for missing dimensions")
	}
}

func TestParseRateHandlesInvalidNumbers(t *testing.T) {
	if got := parseRate("25"); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if got := parseRate("bad/1"); got != 0 {
		t.Fatalf("expected 0 for invalid rate, got %v", got)
	}
	if !math.IsNaN(parseFloat("nope")) {
		t.Fatal("expected NaN for invalid float")
	}
}

func TestInspectRunsBinary(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "probe.json")
	if err := os.WriteFile(payload, []byte(sampleProbe), 0o644); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "ffprobe")
	body := "#!/bin/sh\ncat " + payload + "\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Inspect(context.Background(), script, "/videos/shelf.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if stream, ok := result.VideoStream(); !ok || stream.Index != 1 {
		t.Fatalf("expected video stream index 1, got %+v", stream)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
