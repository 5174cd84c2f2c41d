package tracks

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cvattrack/internal/detection"
)

func det(label string, x float64) detection.Detection {
	return detection.Detection{Label: label, XTL: x, YTL: x, XBR: x + 10, YBR: x + 10}
}

func TestBuildTracksSplitsOnSingleFrameGap(t *testing.T) {
	frames := [][]detection.Detection{
		{det("cakes", 0)},
		{det("cakes", 1)},
		{},
		{det("cakes", 3)},
	}
	got := BuildTracks(slices.Values(frames))
	want := []Track{
		{Label: "Cakes", Boxes: []Box{
			{Frame: 0, XTL: 0, YTL: 0, XBR: 10, YBR: 10},
			{Frame: 1, XTL: 1, YTL: 1, XBR: 11, YBR: 11},
		}},
		{Label: "Cakes", Boxes: []Box{{Frame: 3, XTL: 3, YTL: 3, XBR: 13, YBR: 13}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tracks mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTracksSameFrameDuplicateOpensNewTrack(t *testing.T) {
	frames := [][]detection.Detection{
		{det("wrap blue", 0), det("Wrap Blue", 50)},
	}
	got := BuildTracks(slices.Values(frames))
	if len(got) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(got))
	}
	for i, tr := range got {
		if len(tr.Boxes) != 1 || tr.Boxes[0].Frame != 0 {
			t.Fatalf("track %d: expected one box at frame 0, got %+v", i, tr.Boxes)
		}
		if tr.Label != "Wrap Blue" {
			t.Fatalf("track %d: unexpected label %q", i, tr.Label)
		}
	}
}

func TestBuildTracksDuplicateFollowsLatestTrack(t *testing.T) {
	// The second detection in frame 0 takes over the active pointer, so the
	// frame 1 detection extends track 1 and track 0 stays a single box.
	frames := [][]detection.Detection{
		{det("onigiri", 0), det("onigiri", 100)},
		{det("onigiri", 1)},
	}
	got := BuildTracks(slices.Values(frames))
	if len(got) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(got))
	}
	if len(got[0].Boxes) != 1 {
		t.Fatalf("expected first track to stay single-box, got %d boxes", len(got[0].Boxes))
	}
	if len(got[1].Boxes) != 2 || got[1].Boxes[0].XTL != 100 || got[1].Boxes[1].Frame != 1 {
		t.Fatalf("unexpected second track: %+v", got[1].Boxes)
	}
}

func TestBuildTracksCocaColaScenario(t *testing.T) {
	frames := [][]detection.Detection{
		{{Label: "coca cola", XTL: 0, YTL: 0, XBR: 10, YBR: 10}},
		{},
		{{Label: "Coca Cola", XTL: 1, YTL: 1, XBR: 11, YBR: 11}},
	}
	got := BuildTracks(slices.Values(frames))
	want := []Track{
		{Label: "Coca Cola", Boxes: []Box{{Frame: 0, XBR: 10, YBR: 10}}},
		{Label: "Coca Cola", Boxes: []Box{{Frame: 2, XTL: 1, YTL: 1, XBR: 11, YBR: 11}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tracks mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTracksInterleavedLabels(t *testing.T) {
	frames := [][]detection.Detection{
		{det("cakes", 0), det("sandwiches", 0)},
		{det("sandwiches", 1), det("cakes", 1)},
		{det("sandwiches", 2)},
		{det("cakes", 3), det("sandwiches", 3)},
	}
	got := BuildTracks(slices.Values(frames))
	type shape struct {
		Label  string
		Frames []int
	}
	var shapes []shape
	for _, tr := range got {
		s := shape{Label: tr.Label}
		for _, b := range tr.Boxes {
			s.Frames = append(s.Frames, b.Frame)
		}
		shapes = append(shapes, s)
	}
	want := []shape{
		{Label: "Cakes", Frames: []int{0, 1}},
		{Label: "Sandwiches", Frames: []int{0, 1, 2, 3}},
		{Label: "Cakes", Frames: []int{3}},
	}
	if diff := cmp.Diff(want, shapes); diff != "" {
		t.Fatalf("track shapes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTracksEmptyInput(t *testing.T) {
	if got := BuildTracks(slices.Values([][]detection.Detection{{}, {}, {}})); len(got) != 0 {
		t.Fatalf("expected no tracks, got %d", len(got))
	}
	if got := BuildTracks(slices.Values([][]detection.Detection(nil))); len(got) != 0 {
		t.Fatalf("expected no tracks for nil input, got %d", len(got))
	}
}

func TestBuildTracksPassesMalformedBoxesThrough(t *testing.T) {
	frames := [][]detection.Detection{{{Label: "cakes", XTL: 20, YTL: 30, XBR: 5, YBR: 1}}}
	got := BuildTracks(slices.Values(frames))
	want := Box{Frame: 0, XTL: 20, YTL: 30, XBR: 5, YBR: 1}
	if len(got) != 1 || got[0].Boxes[0] != want {
		t.Fatalf("expected coordinates unchanged, got %+v", got)
	}
}

func TestBuildTracksRandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	labels := []string{"cakes", "Cakes", "coca cola", "sw red"}
	frames := make([][]detection.Detection, 300)
	total := 0
	for i := range frames {
		n := rng.Intn(4)
		for j := 0; j < n; j++ {
			frames[i] = append(frames[i], det(labels[rng.Intn(len(labels))], float64(i)))
		}
		total += n
	}
	got := BuildTracks(slices.Values(frames))
	if CountBoxes(got) != total {
		t.Fatalf("expected every detection in exactly one box: %d boxes for %d detections", CountBoxes(got), total)
	}
	for i, tr := range got {
		if len(tr.Boxes) == 0 {
			t.Fatalf("track %d has no boxes", i)
		}
		for k := 1; k < len(tr.Boxes); k++ {
			if tr.Boxes[k].Frame-tr.Boxes[k-1].Frame != 1 {
				t.Fatalf("track %d not contiguous at box %d: %d -> %d", i, k, tr.Boxes[k-1].Frame, tr.Boxes[k].Frame)
			}
		}
		if i > 0 {
			prevFirst, _ := got[i-1].Span()
			first, _ := tr.Span()
			if first < prevFirst {
				t.Fatalf("tracks out of creation order at %d", i)
			}
		}
	}
}

func TestBuilderIncremental(t *testing.T) {
	b := NewBuilder()
	b.Observe([]detection.Detection{det("oats blue", 0)})
	b.Observe(nil)
	if b.Frames() != 2 {
		t.Fatalf("expected 2 frames observed, got %d", b.Frames())
	}
	b.Observe([]detection.Detection{det("oats blue", 2)})
	if len(b.Tracks()) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(b.Tracks()))
	}
}

func TestSummarize(t *testing.T) {
	tracks := []Track{
		{Label: "Cakes", Boxes: []Box{{Frame: 0}, {Frame: 1}}},
		{Label: "Bottled Tea", Boxes: []Box{{Frame: 4}}},
		{Label: "Cakes", Boxes: []Box{{Frame: 5}, {Frame: 6}, {Frame: 7}}},
	}
	want := []LabelSummary{
		{Label: "Bottled Tea", Tracks: 1, Boxes: 1, FirstFrame: 4, LastFrame: 4, LongestRun: 1},
		{Label: "Cakes", Tracks: 2, Boxes: 5, FirstFrame: 0, LastFrame: 7, LongestRun: 3},
	}
	if diff := cmp.Diff(want, Summarize(tracks)); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}
