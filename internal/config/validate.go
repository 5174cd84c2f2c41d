package config

import (
	"errors"
	"fmt"

	"cvattrack/internal/catalog"
	"cvattrack/internal/cvat"
	"cvattrack/internal/detection"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTask(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateDetections(); err != nil {
		return err
	}
	if c.Export.Workers <= 0 {
		return errors.New("export.workers must be positive")
	}
	return nil
}

func (c *Config) validateTask() error {
	if c.Task.Name == "" {
		return errors.New("task.name must be set")
	}
	if c.Task.Width <= 0 || c.Task.Height <= 0 {
		return fmt.Errorf("task.width and task.height must be positive (got %dx%d)", c.Task.Width, c.Task.Height)
	}
	if c.Task.Overlap < 0 {
		return errors.New("task.overlap must be >= 0")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	policy, err := cvat.ParseUnknownLabelPolicy(c.Catalog.UnknownLabels)
	if err != nil {
		return fmt.Errorf("catalog.unknown_labels: %w", err)
	}
	if policy == cvat.UnknownLabelsDeclare && !catalog.ValidColor(c.Catalog.DefaultColor) {
		return fmt.Errorf("catalog.default_color %q must be #rrggbb when catalog.unknown_labels is declare", c.Catalog.DefaultColor)
	}
	if _, err := c.LabelCatalog(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDetections() error {
	if _, err := detection.ParseFormat(c.Detections.Format); err != nil {
		return fmt.Errorf("detections.format: %w", err)
	}
	if c.Detections.Stride < 1 {
		return errors.New("detections.stride must be >= 1")
	}
	return nil
}
