package testsupport

import (
	"path/filepath"
	"testing"

	"slate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Studio.BaseURL = "http://127.0.0.1:0"
	cfg.Studio.APIToken = "test-token"
	cfg.Storage.Backend = config.StorageBackendLocal
	cfg.Storage.LocalDir = filepath.Join(base, "storage")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithStudioURL points the test config at a live test server.
func WithStudioURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Studio.BaseURL = url
	}
}

// WithStorageDir overrides the local storage directory.
func WithStorageDir(dir string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Storage.LocalDir = dir
	}
}
