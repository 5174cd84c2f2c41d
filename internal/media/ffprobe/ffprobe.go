package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Duration     string `json:"duration"`
	NBFrames     string `json:"nb_frames"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// ErrNoVideoStream reports a container without a video stream.
var ErrNoVideoStream = errors.New("no video stream")

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return Parse(output)
}

// Parse decodes an ffprobe JSON payload.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// VideoStream returns the first video stream.
func (r Result) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// VideoFrameCount returns the number of frames in the first video stream.
// The container's nb_frames is used when reported; otherwise the count is
// estimated from duration and average frame rate.
func (r Result) VideoFrameCount() (int, error) {
	stream, ok := r.VideoStream()
	if !ok {
		return 0, ErrNoVideoStream
	}
	if n, err := strconv.Atoi(strings.TrimSpace(stream.NBFrames)); err == nil && n > 0 {
		return n, nil
	}

	duration := parseFloat(stream.Duration)
	if duration <= 0 || math.IsNaN(duration) {
		duration = parseFloat(r.Format.Duration)
	}
	rate := parseRate(stream.AvgFrameRate)
	if rate <= 0 {
		rate = parseRate(stream.RFrameRate)
	}
	if duration <= 0 || math.IsNaN(duration) || rate <= 0 {
		return 0, fmt.Errorf("ffprobe frame count: stream %d reports neither nb_frames nor duration and rate", stream.Index)
	}
	return int(math.Round(duration * rate)), nil
}

// VideoSize returns the width and height of the first video stream.
func (r Result) VideoSize() (width, height int, err error) {
	stream, ok := r.VideoStream()
	if !ok {
		return 0, 0, ErrNoVideoStream
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return 0, 0, fmt.Errorf("ffprobe video size: stream %d has no dimensions", stream.Index)
	}
	return stream.Width, stream.Height, nil
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

func parseRate(value string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(value), "/")
	if !ok {
		return parseFloat(num)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d == 0 || math.IsNaN(n) || math.IsNaN(d) {
		return 0
	}
	return n / d
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
