package logging

import (
	"context"
	"log/slog"
)

const (
	FieldComponent   = "component"
	FieldRunID       = "run_id"
	FieldStage       = "stage"
	FieldDetections  = "detections"
	FieldOutput      = "output"
	FieldVideo       = "video"
	FieldFrames      = "frames"
	FieldFrameSource = "frame_source"
	FieldTracks      = "tracks"
	FieldBoxes       = "boxes"
	FieldDropped     = "dropped"
	FieldDeclared    = "declared"
	FieldDuration    = "duration"
	FieldErrorHint   = "error_hint"
)

type runIDKey struct{}

// WithRunID stores the export run id on ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run id stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// WithContext attaches context-derived fields to logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := RunIDFromContext(ctx); ok {
		return logger.With(String(FieldRunID, id))
	}
	return logger
}
