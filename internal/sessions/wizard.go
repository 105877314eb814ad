// Package sessions drives the three-step recording session creation flow:
// metadata entry, camera uploads, and the final create call. Wizard state
// accumulates across steps and persists as a draft, so stepping back or a
// crashed process never loses finished work.
package sessions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"slate/internal/drafts"
	"slate/internal/logging"
	"slate/internal/media"
	"slate/internal/services"
	"slate/internal/studio"
	"slate/internal/uploads"
)

// Step identifies a wizard step.
type Step int

const (
	StepMetadata Step = 1
	StepUploads  Step = 2
	StepConfirm  Step = 3
)

var eventTypes = map[string]struct{}{
	"service":  {},
	"teaching": {},
	"podcast":  {},
	"other":    {},
}

// Metadata is the step-one form.
type Metadata struct {
	Title         string
	RecordingDate time.Time
	Description   string
	EventType     string
	AnchorAngle   media.CameraAngle
}

// Creator creates the session record once all three cameras are in.
// *studio.Client satisfies it.
type Creator interface {
	CreateRecordingSession(ctx context.Context, session studio.NewSession) (string, error)
}

// Wizard runs one session creation flow over a persisted draft.
type Wizard struct {
	store       *drafts.Store
	coordinator *uploads.Coordinator
	creator     Creator
	logger      *slog.Logger
	draft       *drafts.Draft
}

// New starts a fresh wizard with a new draft.
func New(ctx context.Context, store *drafts.Store, coordinator *uploads.Coordinator, creator Creator, logger *slog.Logger) (*Wizard, error) {
	draft, err := store.New(ctx)
	if err != nil {
		return nil, err
	}
	return wizard(store, coordinator, creator, logger, draft), nil
}

// Resume continues the most recently touched draft.
func Resume(ctx context.Context, store *drafts.Store, coordinator *uploads.Coordinator, creator Creator, logger *slog.Logger) (*Wizard, error) {
	draft, err := store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return wizard(store, coordinator, creator, logger, draft), nil
}

// ResumeByID continues a specific draft.
func ResumeByID(ctx context.Context, store *drafts.Store, coordinator *uploads.Coordinator, creator Creator, logger *slog.Logger, id string) (*Wizard, error) {
	draft, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return wizard(store, coordinator, creator, logger, draft), nil
}

func wizard(store *drafts.Store, coordinator *uploads.Coordinator, creator Creator, logger *slog.Logger, draft *drafts.Draft) *Wizard {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Wizard{
		store:       store,
		coordinator: coordinator,
		creator:     creator,
		logger:      logger.With(logging.FieldComponent, "sessions"),
		draft:       draft,
	}
}

// Step returns the wizard's current step.
func (w *Wizard) Step() Step {
	return Step(w.draft.Step)
}

// Draft returns a snapshot of the accumulated state.
func (w *Wizard) Draft() drafts.Draft {
	snapshot := *w.draft
	snapshot.AssetIDs = make(map[media.CameraAngle]string, len(w.draft.AssetIDs))
	for angle, id := range w.draft.AssetIDs {
		snapshot.AssetIDs[angle] = id
	}
	return snapshot
}

// SetMetadata validates and records the step-one form, then advances to
// the upload step. Re-running it from a later step updates the metadata
// without discarding uploaded assets.
func (w *Wizard) SetMetadata(ctx context.Context, meta Metadata) error {
	if strings.TrimSpace(meta.Title) == "" {
		return services.Wrap(services.ErrValidation, "sessions", "metadata", "title is required", nil)
	}
	if meta.RecordingDate.IsZero() {
		return services.Wrap(services.ErrValidation, "sessions", "metadata", "recording date is required", nil)
	}
	eventType := meta.EventType
	if eventType == "" {
		eventType = "service"
	}
	if _, ok := eventTypes[eventType]; !ok {
		return services.Wrap(services.ErrValidation, "sessions", "metadata",
			fmt.Sprintf("unknown event type %q", eventType), nil)
	}
	anchor := meta.AnchorAngle
	if anchor == "" {
		anchor = media.AngleA
	}
	if _, ok := media.ParseAngle(string(anchor)); !ok {
		return services.Wrap(services.ErrValidation, "sessions", "metadata",
			fmt.Sprintf("unknown anchor angle %q", anchor), nil)
	}

	w.draft.Title = strings.TrimSpace(meta.Title)
	w.draft.RecordingDate = meta.RecordingDate
	w.draft.Description = strings.TrimSpace(meta.Description)
	w.draft.EventType = eventType
	w.draft.AnchorAngle = anchor
	if w.draft.Step < int(StepUploads) {
		w.draft.Step = int(StepUploads)
	}
	return w.store.Save(ctx, w.draft)
}

// SyncUploads merges the coordinator's finished uploads into the draft and
// advances to the confirm step once all three cameras are registered.
func (w *Wizard) SyncUploads(ctx context.Context) error {
	for angle, assetID := range w.coordinator.AssetIDs() {
		w.draft.AssetIDs[angle] = assetID
	}
	if len(w.draft.AssetIDs) == len(media.AllAngles()) && w.draft.Step < int(StepConfirm) {
		w.draft.Step = int(StepConfirm)
	}
	return w.store.Save(ctx, w.draft)
}

// Back steps the wizard backwards without discarding any accumulated state.
func (w *Wizard) Back(ctx context.Context) error {
	if w.draft.Step > int(StepMetadata) {
		w.draft.Step--
	}
	return w.store.Save(ctx, w.draft)
}

// MissingAngles lists cameras without a registered asset, in display order.
func (w *Wizard) MissingAngles() []media.CameraAngle {
	var missing []media.CameraAngle
	for _, angle := range media.AllAngles() {
		if w.draft.AssetIDs[angle] == "" {
			missing = append(missing, angle)
		}
	}
	return missing
}

// Create performs the final session creation. It is refused until the
// metadata is set and all three cameras have registered assets. The draft
// survives a failed create so the operator can retry without re-uploading;
// a successful create deletes it.
func (w *Wizard) Create(ctx context.Context) (string, error) {
	if strings.TrimSpace(w.draft.Title) == "" || w.draft.RecordingDate.IsZero() {
		return "", services.Wrap(services.ErrValidation, "sessions", "create",
			"session metadata is incomplete", nil)
	}
	if missing := w.MissingAngles(); len(missing) > 0 {
		return "", services.Wrap(services.ErrValidation, "sessions", "create",
			fmt.Sprintf("cameras not uploaded: %v", missing), nil)
	}

	assets := make([]string, 0, 3)
	for _, angle := range media.AllAngles() {
		assets = append(assets, w.draft.AssetIDs[angle])
	}
	sessionID, err := w.creator.CreateRecordingSession(ctx, studio.NewSession{
		Title:         w.draft.Title,
		RecordingDate: w.draft.RecordingDate,
		Description:   w.draft.Description,
		EventType:     w.draft.EventType,
		AnchorAngle:   string(w.draft.AnchorAngle),
		Assets:        assets,
	})
	if err != nil {
		return "", services.Wrap(nil, "sessions", "create", "create session", err)
	}

	w.logger.InfoContext(ctx, "session created",
		logging.FieldSessionID, sessionID,
		"title", w.draft.Title)
	if err := w.store.Delete(ctx, w.draft.ID); err != nil {
		w.logger.WarnContext(ctx, "failed to delete completed draft", logging.Error(err))
	}
	return sessionID, nil
}
