package preflight

import (
	"context"

	"slate/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckDiskSpace("Data disk space", cfg.Paths.DataDir))

	results = append(results, CheckStudio(ctx, cfg.Studio.BaseURL, cfg.Studio.APIToken))

	if cfg.Storage.Backend == config.StorageBackendLocal {
		results = append(results, CheckDirectoryAccess("Storage directory", cfg.Storage.LocalDir))
	} else {
		results = append(results, CheckStorageConfig(cfg))
	}

	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
