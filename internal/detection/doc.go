// Package detection defines the per-frame detection records emitted by the
// external detector and the readers that stream them from disk.
//
// Frames are delivered lazily, one slice of detections per frame index, with
// skipped frames represented as empty slices so downstream consumers can
// reason about frame adjacency. Labels are normalized here so every consumer
// agrees on the canonical spelling.
package detection
