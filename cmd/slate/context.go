package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"slate/internal/config"
	"slate/internal/inbox"
	"slate/internal/logging"
	"slate/internal/studio"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// loggerValue returns the process logger. Failures to open log files fall
// back to a no-op logger rather than blocking the command.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) studioClient() (*studio.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return studio.NewConfiguredClient(cfg), nil
}

func (c *commandContext) newAggregator() (*inbox.Aggregator, error) {
	client, err := c.studioClient()
	if err != nil {
		return nil, err
	}
	cfg := c.configValue()
	timeout := time.Duration(cfg.Workflow.SourceTimeout) * time.Second
	return inbox.NewAggregator(inbox.StudioSources(client), timeout, c.loggerValue()), nil
}

func (c *commandContext) newDispatcher() (*inbox.Dispatcher, *inbox.Aggregator, error) {
	client, err := c.studioClient()
	if err != nil {
		return nil, nil, err
	}
	aggregator, err := c.newAggregator()
	if err != nil {
		return nil, nil, err
	}
	cfg := c.configValue()
	return inbox.NewDispatcher(client, aggregator, cfg.Studio.DetailBaseURL, c.loggerValue()), aggregator, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
