package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"cvattrack/internal/catalog"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file system locations.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// Task contains the static CVAT task fields written into every document.
type Task struct {
	ID            int    `toml:"id"`
	Name          string `toml:"name"`
	Mode          string `toml:"mode"`
	Overlap       int    `toml:"overlap"`
	Subset        string `toml:"subset"`
	Bugtracker    string `toml:"bugtracker"`
	Assignee      string `toml:"assignee"`
	OwnerUsername string `toml:"owner_username"`
	OwnerEmail    string `toml:"owner_email"`
	SegmentID     int    `toml:"segment_id"`
	SegmentURL    string `toml:"segment_url"`
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
}

// Catalog contains the label catalog and the unknown label policy.
type Catalog struct {
	UnknownLabels string          `toml:"unknown_labels"`
	DefaultColor  string          `toml:"default_color"`
	Labels        []catalog.Label `toml:"labels"`
}

// Detections describes how detection files are read.
type Detections struct {
	Format        string `toml:"format"`
	Stride        int    `toml:"stride"`
	ValidateBoxes bool   `toml:"validate_boxes"`
}

// Export contains export runtime settings.
type Export struct {
	Workers       int    `toml:"workers"`
	ProbeVideo    bool   `toml:"probe_video"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	RecordHistory bool   `toml:"record_history"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cvattrack.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Task       Task       `toml:"task"`
	Catalog    Catalog    `toml:"catalog"`
	Detections Detections `toml:"detections"`
	Export     Export     `toml:"export"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cvattrack/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// A file that declares its own labels replaces the built-in catalog.
		cfg.Catalog.Labels = nil
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cvattrack.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory, the output directory when one
// is configured, and the history database directory when history is enabled.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Paths.OutputDir != "" {
		dirs = append(dirs, c.Paths.OutputDir)
	}
	if c.Export.RecordHistory && c.Paths.HistoryDB != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.HistoryDB))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LabelCatalog builds the configured label catalog.
func (c *Config) LabelCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.New(c.Catalog.Labels)
	if err != nil {
		return nil, fmt.Errorf("catalog.labels: %w", err)
	}
	return cat, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
