// Package logging assembles structured slog loggers used across cvattrack.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so export code can tag every line
// with the run it belongs to. A no-op logger is provided for tests and for
// wiring code that cannot fail.
package logging
