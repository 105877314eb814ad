package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slate/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be reported missing")
	}
	if cfg.Workflow.RenderPollInterval != 2 {
		t.Fatalf("unexpected render poll interval: %d", cfg.Workflow.RenderPollInterval)
	}
	if cfg.Storage.Backend != config.StorageBackendLocal {
		t.Fatalf("unexpected storage backend: %s", cfg.Storage.Backend)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected expanded data dir, got %q", cfg.Paths.DataDir)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slate.toml")
	contents := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[studio]
base_url = "https://studio.example.com/"
api_token = "tok-1"

[storage]
backend = "s3"
bucket = "slate-media"
region = "us-east-1"
prefix = "/sessions/"

[workflow]
render_poll_interval = 5
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %v %q", exists, resolved)
	}
	if cfg.Studio.BaseURL != "https://studio.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Studio.BaseURL)
	}
	if cfg.Studio.DetailBaseURL != "https://studio.example.com" {
		t.Fatalf("expected detail base url to default to base url, got %q", cfg.Studio.DetailBaseURL)
	}
	if cfg.Storage.Prefix != "sessions" {
		t.Fatalf("expected prefix normalized, got %q", cfg.Storage.Prefix)
	}
	if cfg.Workflow.RenderPollInterval != 5 {
		t.Fatalf("unexpected render poll interval: %d", cfg.Workflow.RenderPollInterval)
	}
}

func TestEnvTokenOverridesEmptyConfig(t *testing.T) {
	t.Setenv("SLATE_STUDIO_TOKEN", "env-token")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Studio.APIToken != "env-token" {
		t.Fatalf("expected env token, got %q", cfg.Studio.APIToken)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*config.Config)
		fragment string
	}{
		{"bad backend", func(c *config.Config) { c.Storage.Backend = "ftp" }, "storage.backend"},
		{"s3 without bucket", func(c *config.Config) {
			c.Storage.Backend = config.StorageBackendS3
			c.Storage.Bucket = ""
		}, "storage.bucket"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad base url", func(c *config.Config) { c.Studio.BaseURL = "not a url" }, "studio.base_url"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("expected %q in error, got %v", tc.fragment, err)
			}
		})
	}
}

func TestCreateSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected error when file already exists")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[studio]") {
		t.Fatal("expected sample to contain a studio section")
	}
}
