// Package preflight provides readiness checks for the filesystem paths and
// external binaries an export depends on.
//
// The CLI "cvattrack preflight" command prints every result. Export runs call
// RunAll before touching any detection file so a missing output directory or
// ffprobe binary is reported once instead of per input.
//
// Each check is gated by its config toggle; disabled features are skipped.
package preflight
