package tracks

import (
	"iter"
	"sort"

	"cvattrack/internal/detection"
)

// Box is a detection placed on the frame it was observed at.
type Box struct {
	Frame int
	XTL   float64
	YTL   float64
	XBR   float64
	YBR   float64
}

// Track is a run of boxes sharing one normalized label, ordered by frame.
type Track struct {
	Label string
	Boxes []Box
}

// Span returns the first and last frame covered by the track.
func (t Track) Span() (int, int) {
	if len(t.Boxes) == 0 {
		return -1, -1
	}
	return t.Boxes[0].Frame, t.Boxes[len(t.Boxes)-1].Frame
}

// Builder accumulates tracks one frame at a time. The zero value is not
// usable; call NewBuilder.
type Builder struct {
	tracks []Track
	active map[string]int
	frame  int
}

// NewBuilder returns a builder positioned before frame 0.
func NewBuilder() *Builder {
	return &Builder{active: make(map[string]int), frame: -1}
}

// Observe consumes the detections of the next frame. Detections are handled
// in input order. A detection extends the label's active track only when
// that track's last box sits on the previous frame; otherwise it opens a new
// track and becomes the label's active track. A second detection of the same
// label in one frame therefore always opens its own track.
func (b *Builder) Observe(dets []detection.Detection) {
	b.frame++
	frame := b.frame
	for _, d := range dets {
		label := detection.NormalizeLabel(d.Label)
		box := Box{Frame: frame, XTL: d.XTL, YTL: d.YTL, XBR: d.XBR, YBR: d.YBR}

		if idx, ok := b.active[label]; ok {
			boxes := b.tracks[idx].Boxes
			if boxes[len(boxes)-1].Frame == frame-1 {
				b.tracks[idx].Boxes = append(boxes, box)
				continue
			}
		}
		b.tracks = append(b.tracks, Track{Label: label, Boxes: []Box{box}})
		b.active[label] = len(b.tracks) - 1
	}
}

// Frames reports how many frames have been observed.
func (b *Builder) Frames() int {
	return b.frame + 1
}

// Tracks returns the tracks built so far in creation order. The builder must
// not be used after the result is handed to other goroutines.
func (b *Builder) Tracks() []Track {
	return b.tracks
}

// BuildTracks runs the builder over a frame-indexed sequence of detections.
// Frame i of the sequence is frame index i; skipped frames must be present as
// empty slices.
func BuildTracks(frames iter.Seq[[]detection.Detection]) []Track {
	b := NewBuilder()
	for frame := range frames {
		b.Observe(frame)
	}
	return b.Tracks()
}

// LabelSummary aggregates the tracks of one label.
type LabelSummary struct {
	Label      string `json:"label"`
	Tracks     int    `json:"tracks"`
	Boxes      int    `json:"boxes"`
	FirstFrame int    `json:"first_frame"`
	LastFrame  int    `json:"last_frame"`
	LongestRun int    `json:"longest_run"`
}

// Summarize groups tracks by label, sorted by label name.
func Summarize(tracks []Track) []LabelSummary {
	byLabel := make(map[string]*LabelSummary)
	for _, t := range tracks {
		first, last := t.Span()
		s, ok := byLabel[t.Label]
		if !ok {
			s = &LabelSummary{Label: t.Label, FirstFrame: first, LastFrame: last}
			byLabel[t.Label] = s
		}
		s.Tracks++
		s.Boxes += len(t.Boxes)
		if first < s.FirstFrame {
			s.FirstFrame = first
		}
		if last > s.LastFrame {
			s.LastFrame = last
		}
		if len(t.Boxes) > s.LongestRun {
			s.LongestRun = len(t.Boxes)
		}
	}
	out := make([]LabelSummary, 0, len(byLabel))
	for _, s := range byLabel {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// CountBoxes returns the total number of boxes across tracks.
func CountBoxes(tracks []Track) int {
	total := 0
	for _, t := range tracks {
		total += len(t.Boxes)
	}
	return total
}
