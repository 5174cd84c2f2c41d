package config

import (
	"fmt"
	"os"
	"strings"

	"cvattrack/internal/catalog"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTask()
	c.normalizeCatalog()
	c.normalizeDetections()
	c.normalizeExport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeTask() {
	c.Task.Name = strings.TrimSpace(c.Task.Name)
	if c.Task.Name == "" {
		c.Task.Name = defaultTaskName
	}
	c.Task.Mode = strings.TrimSpace(c.Task.Mode)
	if c.Task.Mode == "" {
		c.Task.Mode = defaultTaskMode
	}
	c.Task.Subset = strings.TrimSpace(c.Task.Subset)
	c.Task.SegmentURL = strings.TrimSpace(c.Task.SegmentURL)
	c.Task.OwnerUsername = strings.TrimSpace(c.Task.OwnerUsername)
	if c.Task.OwnerUsername == "" {
		if value, ok := os.LookupEnv("CVATTRACK_OWNER"); ok {
			c.Task.OwnerUsername = strings.TrimSpace(value)
		}
	}
	c.Task.OwnerEmail = strings.TrimSpace(c.Task.OwnerEmail)
	if c.Task.OwnerEmail == "" {
		if value, ok := os.LookupEnv("CVATTRACK_EMAIL"); ok {
			c.Task.OwnerEmail = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeCatalog() {
	c.Catalog.UnknownLabels = strings.ToLower(strings.TrimSpace(c.Catalog.UnknownLabels))
	if c.Catalog.UnknownLabels == "" {
		c.Catalog.UnknownLabels = defaultUnknownLabels
	}
	c.Catalog.DefaultColor = strings.ToLower(strings.TrimSpace(c.Catalog.DefaultColor))
	if c.Catalog.DefaultColor == "" {
		c.Catalog.DefaultColor = defaultLabelColor
	}
	if len(c.Catalog.Labels) == 0 {
		c.Catalog.Labels = append([]catalog.Label(nil), catalog.DefaultLabels...)
	}
}

func (c *Config) normalizeDetections() {
	c.Detections.Format = strings.ToLower(strings.TrimSpace(c.Detections.Format))
	if c.Detections.Stride == 0 {
		c.Detections.Stride = 1
	}
}

func (c *Config) normalizeExport() {
	if c.Export.Workers <= 0 {
		c.Export.Workers = defaultWorkers
	}
	c.Export.FFprobeBinary = strings.TrimSpace(c.Export.FFprobeBinary)
	if c.Export.FFprobeBinary == "" {
		c.Export.FFprobeBinary = defaultFFprobe
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
