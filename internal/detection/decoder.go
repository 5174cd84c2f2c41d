package detection

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies the on-disk encoding of a detection file.
type Format string

const (
	// FormatJSON is a single JSON array holding one array of detections per frame.
	FormatJSON Format = "json"
	// FormatJSONL holds one JSON array of detections per line.
	FormatJSONL Format = "jsonl"
)

// ParseFormat maps a user supplied format name onto a Format.
// An empty value returns the empty Format so callers can fall back to FormatFromPath.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return "", nil
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("detection format: unsupported value %q", value)
	}
}

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	default:
		return FormatJSON
	}
}

// DecoderOption customizes a Decoder.
type DecoderOption func(*Decoder)

// WithBoxValidation rejects detections with non-finite or inverted boxes.
func WithBoxValidation() DecoderOption {
	return func(d *Decoder) {
		d.validate = true
	}
}

// WithStride declares that consecutive entries in the source were observed
// every n frames. The decoder emits n-1 empty frames between entries so the
// output stays contiguous. Values below 2 leave the source unchanged.
func WithStride(n int) DecoderOption {
	return func(d *Decoder) {
		if n > 1 {
			d.stride = n
		}
	}
}

// Decoder streams frames from a detection file one frame at a time.
type Decoder struct {
	format   Format
	validate bool
	stride   int

	json    *json.Decoder
	scanner *bufio.Scanner
	opened  bool
	closed  bool

	frame    int
	entries  int
	gap      int
	buffered []Detection
	held     bool
}

// NewDecoder wraps r. An empty format defaults to FormatJSON.
func NewDecoder(r io.Reader, format Format, opts ...DecoderOption) *Decoder {
	if format == "" {
		format = FormatJSON
	}
	d := &Decoder{format: format, stride: 1, frame: -1}
	for _, opt := range opts {
		opt(d)
	}
	switch format {
	case FormatJSONL:
		d.scanner = bufio.NewScanner(r)
		d.scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	default:
		d.json = json.NewDecoder(r)
	}
	return d
}

// Frame returns the index of the most recently returned frame, or -1.
func (d *Decoder) Frame() int {
	return d.frame
}

// Next returns the detections of the next frame. Skipped frames come back as
// empty slices. It returns io.EOF once the source is exhausted.
func (d *Decoder) Next() ([]Detection, error) {
	if d.held {
		if d.gap > 0 {
			d.gap--
			d.frame++
			return nil, nil
		}
		d.held = false
		entry := d.buffered
		d.buffered = nil
		return d.emit(entry)
	}

	entry, err := d.readEntry()
	if err != nil {
		return nil, err
	}
	d.entries++
	if d.stride > 1 && d.entries > 1 {
		d.buffered = entry
		d.held = true
		d.gap = d.stride - 2
		d.frame++
		return nil, nil
	}
	return d.emit(entry)
}

func (d *Decoder) emit(entry []Detection) ([]Detection, error) {
	d.frame++
	if d.validate {
		if err := ValidateFrame(d.frame, entry); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

func (d *Decoder) readEntry() ([]Detection, error) {
	if d.closed {
		return nil, io.EOF
	}
	if d.format == FormatJSONL {
		return d.readLine()
	}
	return d.readArrayElement()
}

func (d *Decoder) readArrayElement() ([]Detection, error) {
	if !d.opened {
		tok, err := d.json.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.closed = true
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read detections: %w", err)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return nil, fmt.Errorf("read detections: expected top-level array, got %v", tok)
		}
		d.opened = true
	}
	if !d.json.More() {
		if _, err := d.json.Token(); err != nil {
			return nil, fmt.Errorf("read detections: %w", err)
		}
		d.closed = true
		return nil, io.EOF
	}
	var entry []Detection
	if err := d.json.Decode(&entry); err != nil {
		return nil, fmt.Errorf("read detections frame %d: %w", d.entries, err)
	}
	return entry, nil
}

func (d *Decoder) readLine() ([]Detection, error) {
	if !d.scanner.Scan() {
		d.closed = true
		if err := d.scanner.Err(); err != nil {
			return nil, fmt.Errorf("read detections: %w", err)
		}
		return nil, io.EOF
	}
	line := bytes.TrimSpace(d.scanner.Bytes())
	if len(line) == 0 {
		return nil, nil
	}
	var entry []Detection
	if err := json.Unmarshal(line, &entry); err != nil {
		return nil, fmt.Errorf("read detections line %d: %w", d.entries+1, err)
	}
	return entry, nil
}

// ReadAll drains a decoder-backed reader into memory.
func ReadAll(r io.Reader, format Format, opts ...DecoderOption) ([][]Detection, error) {
	dec := NewDecoder(r, format, opts...)
	var frames [][]Detection
	for {
		frame, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
}
