package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStudio()
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeStudio() {
	c.Studio.BaseURL = strings.TrimRight(strings.TrimSpace(c.Studio.BaseURL), "/")
	c.Studio.DetailBaseURL = strings.TrimRight(strings.TrimSpace(c.Studio.DetailBaseURL), "/")
	if c.Studio.DetailBaseURL == "" {
		c.Studio.DetailBaseURL = c.Studio.BaseURL
	}
	if c.Studio.APIToken == "" {
		if token, ok := os.LookupEnv("SLATE_STUDIO_TOKEN"); ok {
			c.Studio.APIToken = strings.TrimSpace(token)
		}
	}
	if c.Studio.RequestTimeout <= 0 {
		c.Studio.RequestTimeout = defaultStudioTimeout
	}
}

func (c *Config) normalizeStorage() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultStorageBackend
	}
	c.Storage.Prefix = strings.Trim(strings.TrimSpace(c.Storage.Prefix), "/")
	if c.Storage.Backend == StorageBackendLocal {
		var err error
		if c.Storage.LocalDir, err = expandPath(c.Storage.LocalDir); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.RenderPollInterval <= 0 {
		c.Workflow.RenderPollInterval = defaultRenderPollInterval
	}
	if c.Workflow.SourceTimeout <= 0 {
		c.Workflow.SourceTimeout = defaultSourceTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
