// Package main hosts the cvattrack CLI entrypoint and command graph.
//
// The Cobra-based command tree turns detection files into CVAT video
// annotation documents, summarizes tracks without writing anything, lists
// the label catalog and export history, and scaffolds configuration. It
// centralizes configuration resolution and logging setup so subcommands can
// focus on output formatting.
//
// Keep this package lean: behaviour belongs in the internal packages and is
// surfaced here through commands and flags.
package main
