package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cvattrack/internal/config"
	"cvattrack/internal/export"
	"cvattrack/internal/history"
	"cvattrack/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		var level string
		if c.logLevelFlag != nil {
			level = *c.logLevelFlag
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, level)
	})
	return c.logger, c.loggerErr
}

// newExporter wires an exporter with history recording when enabled. The
// returned close function releases the history store.
func (c *commandContext) newExporter() (*export.Exporter, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	var opts []export.Option
	closeFn := func() {}
	if cfg.Export.RecordHistory {
		store, err := history.Open(cfg.Paths.HistoryDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open history: %w", err)
		}
		opts = append(opts, export.WithRecorder(store))
		closeFn = func() { _ = store.Close() }
	}

	exp, err := export.New(cfg, logger, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return exp, closeFn, nil
}

// openHistory returns nil without error when no history has been recorded yet.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.Paths.HistoryDB); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return history.Open(cfg.Paths.HistoryDB)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
