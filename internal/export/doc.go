// Package export runs detection files through track construction and CVAT
// serialization and writes the resulting annotation documents.
//
// Key responsibilities:
//   - Resolving the per-run request against configuration: detection
//     format, stride, box validation, unknown label policy and output path.
//   - Deciding the task frame count (explicit, probed from the source video,
//     or the number of decoded frames).
//   - Writing documents atomically under a per-output advisory lock.
//   - Recording every finished run in the export history.
//
// Failures are tagged with the sentinel markers in errors.go so the CLI can
// print a consistent hint.
package export
