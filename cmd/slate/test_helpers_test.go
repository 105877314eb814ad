package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig writes a minimal config file rooted in a temp directory
// and returns its path.
func writeTestConfig(t *testing.T, studioURL string) string {
	t.Helper()

	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[studio]
base_url = %q
api_token = "test-token"

[storage]
backend = "local"
local_dir = %q
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		studioURL,
		filepath.Join(base, "uploads"),
	)

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// runCLI executes the root command with the given args and returns captured
// stdout and the execution error.
func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()

	if configPath != "" {
		args = append(args, "--config", configPath)
	}

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
