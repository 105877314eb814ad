package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for internally inconsistent or unusable
// values. It returns all problems at once so operators can fix a config file
// in a single pass.
func (c *Config) Validate() error {
	var problems []error

	if err := c.validateStudio(); err != nil {
		problems = append(problems, err)
	}
	if err := c.validateStorage(); err != nil {
		problems = append(problems, err)
	}
	if err := c.validateLogging(); err != nil {
		problems = append(problems, err)
	}

	return errors.Join(problems...)
}

func (c *Config) validateStudio() error {
	if strings.TrimSpace(c.Studio.BaseURL) == "" {
		return errors.New("studio.base_url must be set")
	}
	parsed, err := url.Parse(c.Studio.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("studio.base_url %q is not a valid URL", c.Studio.BaseURL)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case StorageBackendS3:
		if strings.TrimSpace(c.Storage.Bucket) == "" {
			return errors.New("storage.bucket must be set when storage.backend is \"s3\"")
		}
	case StorageBackendLocal:
		if strings.TrimSpace(c.Storage.LocalDir) == "" {
			return errors.New("storage.local_dir must be set when storage.backend is \"local\"")
		}
	default:
		return fmt.Errorf("storage.backend %q is not supported (expected %q or %q)",
			c.Storage.Backend, StorageBackendS3, StorageBackendLocal)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (expected \"console\" or \"json\")", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}
