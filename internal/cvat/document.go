package cvat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"cvattrack/internal/catalog"
	"cvattrack/internal/tracks"
)

const formatVersion = "1.1"

// UnknownLabelPolicy decides what happens to tracks whose label is not in
// the catalog.
type UnknownLabelPolicy string

const (
	// UnknownLabelsFail aborts rendering with a *catalog.LookupError.
	UnknownLabelsFail UnknownLabelPolicy = "fail"
	// UnknownLabelsDrop omits the offending tracks.
	UnknownLabelsDrop UnknownLabelPolicy = "drop"
	// UnknownLabelsDeclare appends a declaration for each unknown label after
	// the catalog entries, using Options.DefaultColor.
	UnknownLabelsDeclare UnknownLabelPolicy = "declare"
)

// ParseUnknownLabelPolicy maps a config value onto a policy. Empty means fail.
func ParseUnknownLabelPolicy(value string) (UnknownLabelPolicy, error) {
	switch p := UnknownLabelPolicy(strings.ToLower(strings.TrimSpace(value))); p {
	case "":
		return UnknownLabelsFail, nil
	case UnknownLabelsFail, UnknownLabelsDrop, UnknownLabelsDeclare:
		return p, nil
	default:
		return "", fmt.Errorf("unknown label policy %q (want fail, drop or declare)", value)
	}
}

// Options tunes rendering.
type Options struct {
	UnknownLabels UnknownLabelPolicy
	DefaultColor  string
}

// Stats summarizes what a document contains.
type Stats struct {
	Tracks   int
	Boxes    int
	Dropped  []string
	Declared []string
}

// Document is a fully built annotation tree, ready to be written.
type Document struct {
	doc   *etree.Document
	Stats Stats
}

// Build renders tracks into an annotation document. frameCount is the total
// number of frames in the video; the task spans frames 0..frameCount-1.
// Tracks and their boxes are emitted in the given order with sequential ids
// starting at 0.
func Build(trs []tracks.Track, frameCount int, cat *catalog.Catalog, meta Metadata, opts Options) (*Document, error) {
	if cat == nil {
		return nil, errors.New("cvat: label catalog is required")
	}
	if frameCount < 0 {
		return nil, fmt.Errorf("cvat: negative frame count %d", frameCount)
	}
	if err := meta.validate(); err != nil {
		return nil, err
	}
	for _, tr := range trs {
		if err := checkText("track label", tr.Label); err != nil {
			return nil, err
		}
	}
	policy := opts.UnknownLabels
	if policy == "" {
		policy = UnknownLabelsFail
	}

	emit, stats, err := resolveLabels(trs, cat, policy)
	if err != nil {
		return nil, err
	}
	if policy == UnknownLabelsDeclare && len(stats.Declared) > 0 && !catalog.ValidColor(opts.DefaultColor) {
		return nil, fmt.Errorf("cvat: default color %q is not #rrggbb", opts.DefaultColor)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("annotations")
	addText(root, "version", formatVersion)

	writeMeta(root, frameCount, cat, meta, stats.Declared, opts.DefaultColor)

	for id, tr := range emit {
		writeTrack(root, id, tr)
		stats.Boxes += len(tr.Boxes)
	}
	stats.Tracks = len(emit)

	doc.Indent(2)
	return &Document{doc: doc, Stats: stats}, nil
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	return d.doc.WriteToBytes()
}

// Serialize builds and serializes in one step.
func Serialize(trs []tracks.Track, frameCount int, cat *catalog.Catalog, meta Metadata, opts Options) ([]byte, error) {
	doc, err := Build(trs, frameCount, cat, meta, opts)
	if err != nil {
		return nil, err
	}
	return doc.Bytes()
}

func resolveLabels(trs []tracks.Track, cat *catalog.Catalog, policy UnknownLabelPolicy) ([]tracks.Track, Stats, error) {
	var stats Stats
	emit := make([]tracks.Track, 0, len(trs))
	seen := make(map[string]struct{})
	for _, tr := range trs {
		if _, err := cat.Lookup(tr.Label); err != nil {
			switch policy {
			case UnknownLabelsDrop:
				if _, ok := seen[tr.Label]; !ok {
					seen[tr.Label] = struct{}{}
					stats.Dropped = append(stats.Dropped, tr.Label)
				}
				continue
			case UnknownLabelsDeclare:
				if _, ok := seen[tr.Label]; !ok {
					seen[tr.Label] = struct{}{}
					stats.Declared = append(stats.Declared, tr.Label)
				}
			default:
				return nil, Stats{}, err
			}
		}
		emit = append(emit, tr)
	}
	return emit, stats, nil
}

func writeMeta(root *etree.Element, frameCount int, cat *catalog.Catalog, meta Metadata, extra []string, extraColor string) {
	now := FormatTimestamp(meta.Now)
	stop := strconv.Itoa(frameCount - 1)

	metaEl := root.CreateElement("meta")
	task := metaEl.CreateElement("task")
	addText(task, "id", strconv.Itoa(meta.TaskID))
	addText(task, "name", meta.TaskName)
	addText(task, "size", strconv.Itoa(frameCount))
	addText(task, "mode", meta.Mode)
	addText(task, "overlap", strconv.Itoa(meta.Overlap))
	addText(task, "bugtracker", meta.Bugtracker)
	addText(task, "created", now)
	addText(task, "updated", now)
	addText(task, "subset", meta.Subset)
	addText(task, "start_frame", "0")
	addText(task, "stop_frame", stop)
	addText(task, "frame_filter", "")

	segment := task.CreateElement("segments").CreateElement("segment")
	addText(segment, "id", strconv.Itoa(meta.SegmentID))
	addText(segment, "start", "0")
	addText(segment, "stop", stop)
	addText(segment, "url", meta.segmentURL())

	owner := task.CreateElement("owner")
	addText(owner, "username", meta.Owner.Username)
	addText(owner, "email", meta.Owner.Email)

	addText(task, "assignee", meta.Assignee)

	labels := task.CreateElement("labels")
	for _, l := range cat.Labels() {
		writeLabel(labels, l.Name, l.Color)
	}
	for _, name := range extra {
		writeLabel(labels, name, strings.ToLower(extraColor))
	}

	size := metaEl.CreateElement("original_size")
	addText(size, "width", strconv.Itoa(meta.Width))
	addText(size, "height", strconv.Itoa(meta.Height))

	addText(metaEl, "dumped", now)
}

func writeLabel(parent *etree.Element, name, color string) {
	label := parent.CreateElement("label")
	addText(label, "name", name)
	addText(label, "color", color)
	addText(label, "type", "any")
	addText(label, "attributes", "")
}

func writeTrack(root *etree.Element, id int, tr tracks.Track) {
	el := root.CreateElement("track")
	el.CreateAttr("id", strconv.Itoa(id))
	el.CreateAttr("label", tr.Label)
	el.CreateAttr("source", "manual")

	last := len(tr.Boxes) - 1
	for i, b := range tr.Boxes {
		box := el.CreateElement("box")
		box.CreateAttr("frame", strconv.Itoa(b.Frame))
		box.CreateAttr("keyframe", "1")
		box.CreateAttr("outside", flag(i == last))
		box.CreateAttr("occluded", "0")
		box.CreateAttr("xtl", FormatCoordinate(b.XTL))
		box.CreateAttr("ytl", FormatCoordinate(b.YTL))
		box.CreateAttr("xbr", FormatCoordinate(b.XBR))
		box.CreateAttr("ybr", FormatCoordinate(b.YBR))
		box.CreateAttr("z_order", "0")
	}
}

// addText appends a child element. Empty values leave the element without a
// text node so it serializes self-closed.
func addText(parent *etree.Element, tag, value string) {
	el := parent.CreateElement(tag)
	if value != "" {
		el.SetText(value)
	}
}
