package uploads_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"slate/internal/media"
	"slate/internal/services"
	"slate/internal/studio"
	"slate/internal/testsupport"
	"slate/internal/uploads"
)

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    map[string]error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte), fail: make(map[string]error)}
}

func (m *memStorage) Upload(_ context.Context, key string, body io.Reader, size int64, progress func(pct int)) error {
	m.mu.Lock()
	for pattern, err := range m.fail {
		if strings.Contains(key, pattern) {
			m.mu.Unlock()
			return err
		}
	}
	m.mu.Unlock()
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if progress != nil {
		progress(100)
	}
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return nil
}

type memRegistrar struct {
	mu     sync.Mutex
	assets []studio.NewAsset
	fail   error
	next   int
}

func (m *memRegistrar) CreateAssetRecord(_ context.Context, asset studio.NewAsset) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return "", m.fail
	}
	m.assets = append(m.assets, asset)
	m.next++
	return fmt.Sprintf("asset-%d", m.next), nil
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func selectAll(t *testing.T, c *uploads.Coordinator) {
	t.Helper()
	for _, angle := range media.AllAngles() {
		path := writeTempFile(t, fmt.Sprintf("cam-%s.mp4", angle), "payload-"+string(angle))
		if err := c.SelectFile(angle, path); err != nil {
			t.Fatalf("select %s: %v", angle, err)
		}
	}
}

func TestUploadTwoPhase(t *testing.T) {
	storage := newMemStorage()
	registrar := &memRegistrar{}
	c := uploads.NewCoordinator(storage, registrar, "sessions/raw", nil)

	path := writeTempFile(t, "cam-a.mp4", "payload")
	if err := c.SelectFile(media.AngleA, path); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := c.Upload(context.Background(), media.AngleA); err != nil {
		t.Fatalf("upload: %v", err)
	}

	cam := c.Camera(media.AngleA)
	if cam.State != uploads.StateComplete || cam.Progress != 100 || cam.AssetID != "asset-1" {
		t.Fatalf("camera: %+v", cam)
	}
	if len(registrar.assets) != 1 {
		t.Fatalf("assets: %d", len(registrar.assets))
	}
	asset := registrar.assets[0]
	if asset.Angle != "A" || asset.Filename != "cam-a.mp4" {
		t.Fatalf("asset: %+v", asset)
	}
	if !strings.HasPrefix(asset.StorageKey, "sessions/raw/A/") {
		t.Fatalf("storage key: %s", asset.StorageKey)
	}
	if _, ok := storage.objects[asset.StorageKey]; !ok {
		t.Fatal("object not written to storage under registered key")
	}
}

func TestUploadWithoutFileIsRefused(t *testing.T) {
	c := uploads.NewCoordinator(newMemStorage(), &memRegistrar{}, "sessions/raw", nil)
	err := c.Upload(context.Background(), media.AngleB)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFailedUploadParksInErrorAndRetries(t *testing.T) {
	storage := newMemStorage()
	storage.fail["/B/"] = errors.New("connection reset")
	registrar := &memRegistrar{}
	c := uploads.NewCoordinator(storage, registrar, "sessions/raw", nil)

	path := writeTempFile(t, "cam-b.mp4", "payload")
	if err := c.SelectFile(media.AngleB, path); err != nil {
		t.Fatal(err)
	}
	if err := c.Upload(context.Background(), media.AngleB); err == nil {
		t.Fatal("expected upload failure")
	}
	cam := c.Camera(media.AngleB)
	if cam.State != uploads.StateError || cam.Err == "" {
		t.Fatalf("camera after failure: %+v", cam)
	}

	delete(storage.fail, "/B/")
	if err := c.Upload(context.Background(), media.AngleB); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if c.Camera(media.AngleB).State != uploads.StateComplete {
		t.Fatalf("camera after retry: %+v", c.Camera(media.AngleB))
	}
}

func TestRegistrationFailureIsAnUploadFailure(t *testing.T) {
	registrar := &memRegistrar{fail: errors.New("backend rejected asset")}
	c := uploads.NewCoordinator(newMemStorage(), registrar, "sessions/raw", nil)

	path := writeTempFile(t, "cam-c.mp4", "payload")
	if err := c.SelectFile(media.AngleC, path); err != nil {
		t.Fatal(err)
	}
	if err := c.Upload(context.Background(), media.AngleC); err == nil {
		t.Fatal("expected registration failure to fail the upload")
	}
	if cam := c.Camera(media.AngleC); cam.State != uploads.StateError || cam.AssetID != "" {
		t.Fatalf("camera: %+v", cam)
	}
}

func TestOneCameraFailureLeavesOthersIndependent(t *testing.T) {
	storage := newMemStorage()
	storage.fail["/B/"] = errors.New("connection reset")
	c := uploads.NewCoordinator(storage, &memRegistrar{}, "sessions/raw", nil)
	selectAll(t, c)

	if err := c.UploadAll(context.Background()); err == nil {
		t.Fatal("expected aggregate error")
	}

	if c.Camera(media.AngleA).State != uploads.StateComplete {
		t.Fatalf("camera A: %+v", c.Camera(media.AngleA))
	}
	if c.Camera(media.AngleC).State != uploads.StateComplete {
		t.Fatalf("camera C: %+v", c.Camera(media.AngleC))
	}
	if c.Camera(media.AngleB).State != uploads.StateError {
		t.Fatalf("camera B: %+v", c.Camera(media.AngleB))
	}
	if c.AllComplete() {
		t.Fatal("AllComplete must be false with a failed camera")
	}
}

func TestAllCompleteAndAssetIDs(t *testing.T) {
	c := uploads.NewCoordinator(newMemStorage(), &memRegistrar{}, "sessions/raw", nil)
	selectAll(t, c)

	if err := c.UploadAll(context.Background()); err != nil {
		t.Fatalf("upload all: %v", err)
	}
	if !c.AllComplete() {
		t.Fatal("expected all cameras complete")
	}
	ids := c.AssetIDs()
	if len(ids) != 3 {
		t.Fatalf("asset ids: %v", ids)
	}
}

func TestSelectFileResetsState(t *testing.T) {
	c := uploads.NewCoordinator(newMemStorage(), &memRegistrar{}, "sessions/raw", nil)
	path := writeTempFile(t, "cam-a.mp4", "payload")
	if err := c.SelectFile(media.AngleA, path); err != nil {
		t.Fatal(err)
	}
	if err := c.Upload(context.Background(), media.AngleA); err != nil {
		t.Fatal(err)
	}

	replacement := writeTempFile(t, "cam-a-take2.mp4", "other payload")
	if err := c.SelectFile(media.AngleA, replacement); err != nil {
		t.Fatal(err)
	}
	cam := c.Camera(media.AngleA)
	if cam.State != uploads.StateIdle || cam.AssetID != "" || cam.Progress != 0 {
		t.Fatalf("camera after reselect: %+v", cam)
	}
}

func TestLocalStorageWritesAndReportsProgress(t *testing.T) {
	dir := t.TempDir()
	cfg := testsupport.NewConfig(t, testsupport.WithStorageDir(dir))
	store, err := uploads.NewStorage(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	payload := strings.Repeat("x", 100_000)

	var reported []int
	err = store.Upload(context.Background(), "sessions/raw/A/cam-a.mp4",
		strings.NewReader(payload), int64(len(payload)),
		func(pct int) { reported = append(reported, pct) })
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	written, err := os.ReadFile(filepath.Join(dir, "sessions", "raw", "A", "cam-a.mp4"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(written) != payload {
		t.Fatal("stored payload differs")
	}
	if len(reported) == 0 || reported[len(reported)-1] != 100 {
		t.Fatalf("progress: %v", reported)
	}
	for i := 1; i < len(reported); i++ {
		if reported[i] < reported[i-1] {
			t.Fatalf("progress went backwards: %v", reported)
		}
	}
}
