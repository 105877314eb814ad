package testsupport

import (
	"testing"

	"slate/internal/config"
	"slate/internal/drafts"
)

// MustOpenStore opens a drafts store for tests and closes it on cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *drafts.Store {
	t.Helper()
	if cfg == nil {
		cfg = NewConfig(t)
	}
	store, err := drafts.Open(cfg)
	if err != nil {
		t.Fatalf("open drafts store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close drafts store: %v", err)
		}
	})
	return store
}
