// Package ffprobe wraps ffprobe JSON output for the source videos that
// detection files were produced from.
//
// Inspect runs the binary and decodes its streams and format sections.
// Result.VideoFrameCount and Result.VideoSize derive the frame count and
// original size used for CVAT task metadata.
package ffprobe
