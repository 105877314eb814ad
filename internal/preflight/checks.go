package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"slate/internal/config"
)

// minFreeBytes is the least free space the data disk should have before
// the doctor flags it. Wizard drafts are tiny; this guards the log volume.
const minFreeBytes = 100 << 20

// CheckStudio verifies that the studio API is reachable and the token is
// accepted. It uses a 5-second timeout and a single attempt.
func CheckStudio(ctx context.Context, baseURL, token string) Result {
	const name = "Studio API"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing base url"}
	}
	if strings.TrimSpace(token) == "" {
		return Result{Name: name, Detail: "missing api token (set studio.api_token or SLATE_STUDIO_TOKEN)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+"/api/ingestion/versions", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%v)", err)}
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unreachable (%v)", err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Detail: "auth failed (invalid api token)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%d)", resp.StatusCode)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has free space left.
func CheckDiskSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (only %d MiB free)", path, free>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, free>>20)}
}

// CheckStorageConfig validates the upload storage settings without making
// a network call: bucket uploads fail loudly at upload time, the doctor
// only catches configuration that can never work.
func CheckStorageConfig(cfg *config.Config) Result {
	const name = "Upload storage"
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		if strings.TrimSpace(cfg.Storage.Bucket) == "" {
			return Result{Name: name, Detail: "s3 backend selected but storage.bucket is empty"}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("s3 bucket %s", cfg.Storage.Bucket)}
	case config.StorageBackendLocal:
		return Result{Name: name, Passed: true, Detail: "local directory backend"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unknown storage backend %q", cfg.Storage.Backend)}
	}
}
