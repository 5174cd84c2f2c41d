package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"cvattrack/internal/catalog"
	"cvattrack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// History recording and video probing are disabled unless an option enables them.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "state", "history.db")
	cfgVal.Export.RecordHistory = false
	cfgVal.Export.ProbeVideo = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithLabels replaces the label catalog.
func WithLabels(labels ...catalog.Label) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Labels = labels
	}
}

// WithUnknownLabels sets the unknown label policy.
func WithUnknownLabels(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.UnknownLabels = policy
	}
}

// WithHistory enables history recording.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.RecordHistory = true
	}
}

// WithWorkers sets the batch worker limit.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.Workers = n
	}
}

// WithStubbedFFprobe installs an ffprobe stub that prints payload and enables
// video probing.
func WithStubbedFFprobe(payload string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		payloadPath := filepath.Join(binDir, "probe.json")
		if err := os.WriteFile(payloadPath, []byte(payload), 0o644); err != nil {
			b.t.Fatalf("write probe payload: %v", err)
		}
		target := filepath.Join(binDir, "ffprobe")
		script := []byte("#!/bin/sh\ncat '" + payloadPath + "'\n")
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write ffprobe stub: %v", err)
		}
		b.cfg.Export.ProbeVideo = true
		b.cfg.Export.FFprobeBinary = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
