package uploads

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"slate/internal/logging"
	"slate/internal/media"
	"slate/internal/services"
	"slate/internal/studio"
)

// State is the lifecycle position of one camera's upload.
type State string

const (
	StateIdle      State = "idle"
	StateUploading State = "uploading"
	StateComplete  State = "complete"
	StateError     State = "error"
)

// CameraUpload is a snapshot of one camera slot's upload state.
type CameraUpload struct {
	Angle    media.CameraAngle
	Path     string
	Filename string
	State    State
	Progress int
	AssetID  string
	Err      string
}

// Registrar records an uploaded file with the studio backend.
// *studio.Client satisfies it.
type Registrar interface {
	CreateAssetRecord(ctx context.Context, asset studio.NewAsset) (string, error)
}

// Coordinator runs the three camera uploads independently. Each upload is
// two-phase: stream the file to storage, then register the asset record.
// A failure in either phase parks the camera in the error state; the
// operator retries just that camera without touching the other two.
type Coordinator struct {
	storage   Storage
	registrar Registrar
	keyPrefix string
	logger    *slog.Logger

	mu      sync.Mutex
	cameras map[media.CameraAngle]*CameraUpload
}

// NewCoordinator builds an upload coordinator. keyPrefix namespaces the
// storage keys, typically "sessions/raw".
func NewCoordinator(storage Storage, registrar Registrar, keyPrefix string, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Coordinator{
		storage:   storage,
		registrar: registrar,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		logger:    logger.With(logging.FieldComponent, "uploads"),
		cameras:   make(map[media.CameraAngle]*CameraUpload, 3),
	}
	for _, angle := range media.AllAngles() {
		c.cameras[angle] = &CameraUpload{Angle: angle, State: StateIdle}
	}
	return c
}

// SelectFile assigns a local file to a camera slot and resets it to idle,
// discarding any previous upload result for that camera.
func (c *Coordinator) SelectFile(angle media.CameraAngle, path string) error {
	if _, err := os.Stat(path); err != nil {
		return services.Wrap(services.ErrValidation, "uploads", "select file", path, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cam := c.cameras[angle]
	cam.Path = path
	cam.Filename = filepath.Base(path)
	cam.State = StateIdle
	cam.Progress = 0
	cam.AssetID = ""
	cam.Err = ""
	return nil
}

// Upload runs one camera's two-phase upload. It is refused while that
// camera is already uploading; a camera in the error state is retried.
func (c *Coordinator) Upload(ctx context.Context, angle media.CameraAngle) error {
	c.mu.Lock()
	cam := c.cameras[angle]
	if cam.Path == "" {
		c.mu.Unlock()
		return services.Wrap(services.ErrValidation, "uploads", "upload",
			fmt.Sprintf("camera %s has no file selected", angle), nil)
	}
	if cam.State == StateUploading {
		c.mu.Unlock()
		return services.Wrap(services.ErrValidation, "uploads", "upload",
			fmt.Sprintf("camera %s is already uploading", angle), nil)
	}
	cam.State = StateUploading
	cam.Progress = 0
	cam.Err = ""
	path, filename := cam.Path, cam.Filename
	c.mu.Unlock()

	assetID, err := c.run(ctx, angle, path, filename)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		cam.State = StateError
		cam.Err = err.Error()
		return err
	}
	cam.State = StateComplete
	cam.Progress = 100
	cam.AssetID = assetID
	return nil
}

func (c *Coordinator) run(ctx context.Context, angle media.CameraAngle, path, filename string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "uploads", "upload", "open file", err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "uploads", "upload", "stat file", err)
	}

	key := fmt.Sprintf("%s/%s-%s", angle, uuid.NewString(), filename)
	if c.keyPrefix != "" {
		key = c.keyPrefix + "/" + key
	}
	c.logger.InfoContext(ctx, "uploading camera file",
		logging.FieldAngle, string(angle),
		"key", key,
		"size_bytes", info.Size())

	progress := func(pct int) {
		c.mu.Lock()
		c.cameras[angle].Progress = pct
		c.mu.Unlock()
	}
	if err := c.storage.Upload(ctx, key, file, info.Size(), progress); err != nil {
		return "", err
	}

	assetID, err := c.registrar.CreateAssetRecord(ctx, studio.NewAsset{
		Angle:      string(angle),
		Filename:   filename,
		StorageKey: key,
	})
	if err != nil {
		return "", services.Wrap(nil, "uploads", "upload", "register asset", err)
	}
	return assetID, nil
}

// UploadAll starts every camera with a selected, not-yet-complete file
// concurrently and waits for all of them. The first error is returned;
// other cameras still run to completion.
func (c *Coordinator) UploadAll(ctx context.Context) error {
	c.mu.Lock()
	var pending []media.CameraAngle
	for _, angle := range media.AllAngles() {
		cam := c.cameras[angle]
		if cam.Path != "" && cam.State != StateComplete && cam.State != StateUploading {
			pending = append(pending, angle)
		}
	}
	c.mu.Unlock()

	var wg sync.WaitGroup
	errs := make([]error, len(pending))
	for i, angle := range pending {
		wg.Add(1)
		go func(i int, angle media.CameraAngle) {
			defer wg.Done()
			errs[i] = c.Upload(ctx, angle)
		}(i, angle)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Camera returns a snapshot of one camera slot.
func (c *Coordinator) Camera(angle media.CameraAngle) CameraUpload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.cameras[angle]
}

// Cameras returns snapshots of all three slots in display order.
func (c *Coordinator) Cameras() []CameraUpload {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CameraUpload, 0, len(c.cameras))
	for _, angle := range media.AllAngles() {
		out = append(out, *c.cameras[angle])
	}
	return out
}

// AllComplete reports whether every camera finished its upload.
func (c *Coordinator) AllComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cam := range c.cameras {
		if cam.State != StateComplete {
			return false
		}
	}
	return true
}

// AssetIDs returns the registered asset ids keyed by camera.
func (c *Coordinator) AssetIDs() map[media.CameraAngle]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[media.CameraAngle]string)
	for angle, cam := range c.cameras {
		if cam.AssetID != "" {
			out[angle] = cam.AssetID
		}
	}
	return out
}
