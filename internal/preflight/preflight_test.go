package preflight_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"slate/internal/config"
	"slate/internal/preflight"
	"slate/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("Data directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass: %+v", result)
	}

	missing := preflight.CheckDirectoryAccess("Data directory", filepath.Join(dir, "nope"))
	if missing.Passed {
		t.Fatalf("expected failure for missing dir: %+v", missing)
	}

	file := filepath.Join(dir, "afile")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	notDir := preflight.CheckDirectoryAccess("Data directory", file)
	if notDir.Passed {
		t.Fatalf("expected failure for non-directory: %+v", notDir)
	}
}

func TestCheckStudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if result := preflight.CheckStudio(context.Background(), server.URL, "good"); !result.Passed {
		t.Fatalf("expected pass: %+v", result)
	}
	if result := preflight.CheckStudio(context.Background(), server.URL, "bad"); result.Passed {
		t.Fatalf("expected auth failure: %+v", result)
	}
	if result := preflight.CheckStudio(context.Background(), "", "good"); result.Passed {
		t.Fatalf("expected missing url failure: %+v", result)
	}
	if result := preflight.CheckStudio(context.Background(), server.URL, ""); result.Passed {
		t.Fatalf("expected missing token failure: %+v", result)
	}
}

func TestCheckStorageConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Storage.Backend = config.StorageBackendS3
	cfg.Storage.Bucket = ""
	if result := preflight.CheckStorageConfig(cfg); result.Passed {
		t.Fatalf("expected failure for empty bucket: %+v", result)
	}

	cfg.Storage.Bucket = "raw-camera-files"
	if result := preflight.CheckStorageConfig(cfg); !result.Passed {
		t.Fatalf("expected pass: %+v", result)
	}

	cfg.Storage.Backend = "ftp"
	if result := preflight.CheckStorageConfig(cfg); result.Passed {
		t.Fatalf("expected failure for unknown backend: %+v", result)
	}
}

func TestRunAllAggregates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithStudioURL(server.URL))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if !preflight.AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
}
