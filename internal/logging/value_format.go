package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

func attrString(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return formatValue(v)
	}
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	var s string
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return formatTimestamp(v.Time())
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r < ' ' || r == '"' {
			return true
		}
	}
	return false
}

var displayLabels = map[string]string{
	FieldRunID:       "Run",
	FieldDetections:  "Detections",
	FieldOutput:      "Output",
	FieldVideo:       "Video",
	FieldFrames:      "Frames",
	FieldFrameSource: "Frame Source",
	FieldTracks:      "Tracks",
	FieldBoxes:       "Boxes",
	FieldDropped:     "Dropped Tracks",
	FieldDeclared:    "Declared Labels",
	FieldDuration:    "Duration",
	FieldErrorHint:   "Hint",
	"error":          "Error",
}

func displayLabel(key string) string {
	if label, ok := displayLabels[key]; ok {
		return label
	}
	return titleizeKey(key)
}

func titleizeKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		lower := strings.ToLower(part)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}
