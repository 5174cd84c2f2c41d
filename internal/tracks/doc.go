// Package tracks groups per-frame detections into tracks: runs of the same
// normalized label observed in strictly consecutive frames.
//
// The builder makes a single forward pass and keeps at most one extendable
// track per label. It is not a multi-object tracker: there is no motion
// model, no IoU matching, and a track is never resumed once a frame passes
// without extending it.
package tracks
