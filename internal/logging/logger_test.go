package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cvattrack/internal/config"
	"cvattrack/internal/logging"
)

func newFileLogger(t *testing.T, format, level string) (*logging.Options, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "out.log")
	return &logging.Options{Format: format, Level: level, OutputPaths: []string{logPath}}, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, err := logging.NewFromConfig(&cfg, "")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("export started")

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, "cvattrack.log"))
	if !strings.Contains(content, `"msg":"export started"`) {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestNewFromConfigLevelOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "error"

	logger, err := logging.NewFromConfig(&cfg, "debug")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("visible")

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, "cvattrack.log"))
	if !strings.Contains(content, "visible") {
		t.Fatalf("expected override level to enable debug, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	opts, logPath := newFileLogger(t, "console", "info")
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	if content := readLog(t, logPath); strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	opts, logPath := newFileLogger(t, "console", "debug")
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	if content := readLog(t, logPath); !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	opts, logPath := newFileLogger(t, "console", "info")
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = logging.NewComponentLogger(logger, "export")
	ctx := logging.WithRunID(context.Background(), "3f2a9c1e-0000-4000-8000-000000000000")
	logging.WithContext(ctx, logger).Info("export finished",
		logging.Int(logging.FieldTracks, 3),
		logging.String(logging.FieldOutput, "/tmp/out file.xml"),
	)

	content := readLog(t, logPath)
	for _, want := range []string{
		"INFO [export] Run 3f2a9c1e – export finished",
		"    - Tracks: 3",
		"    - Output: /tmp/out file.xml",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in output, got %q", want, content)
		}
	}
	if strings.Contains(content, "component") {
		t.Fatalf("component should render in header only, got %q", content)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	opts, logPath := newFileLogger(t, "json", "info")
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("catalog miss", logging.Error(errors.New("label not found")))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if entry["level"] != "warn" {
		t.Fatalf("expected lower-case level, got %v", entry["level"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
	if entry["error"] != "label not found" {
		t.Fatalf("expected error attr, got %v", entry["error"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should not be enabled")
	}
	logger.Error("ignored")
}

func TestRunIDFromContext(t *testing.T) {
	if _, ok := logging.RunIDFromContext(context.Background()); ok {
		t.Fatal("expected no run id on empty context")
	}
	ctx := logging.WithRunID(context.Background(), "abc")
	if id, ok := logging.RunIDFromContext(ctx); !ok || id != "abc" {
		t.Fatalf("expected run id abc, got %q %v", id, ok)
	}
}
