package studio

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"slate/internal/media"
	"slate/internal/services"
)

// SyncResults is the computed alignment state of a recording session.
type SyncResults struct {
	SessionID      string             `json:"sessionId"`
	MasterCamera   string             `json:"masterCamera"`
	Offsets        map[string]int     `json:"offsets"`
	Confidence     map[string]float64 `json:"confidence"`
	OperatorStatus string             `json:"operatorStatus"`
	Status         string             `json:"status"`
}

// NewSession is the payload for creating a recording session. Assets must
// hold exactly three asset record ids, one per camera.
type NewSession struct {
	Title         string    `json:"title"`
	RecordingDate time.Time `json:"recordingDate"`
	Description   string    `json:"description,omitempty"`
	EventType     string    `json:"eventType,omitempty"`
	AnchorAngle   string    `json:"anchorAngle"`
	Assets        []string  `json:"assets"`
}

// NewAsset is the payload for registering one uploaded camera file.
type NewAsset struct {
	Angle        string `json:"angle"`
	Filename     string `json:"filename"`
	StorageKey   string `json:"r2_key"`
	UploadStatus string `json:"uploadStatus"`
}

// GetSyncResults fetches a session's alignment offsets and confidence.
func (c *Client) GetSyncResults(ctx context.Context, sessionID string) (SyncResults, error) {
	var out SyncResults
	path := fmt.Sprintf("/api/recording-sessions/%s/sync", sessionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return SyncResults{}, err
	}
	return out, nil
}

// GetRecordingSession assembles the domain session from sync results.
func (c *Client) GetRecordingSession(ctx context.Context, sessionID string) (*media.RecordingSession, error) {
	results, err := c.GetSyncResults(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	anchor, ok := media.ParseAngle(results.MasterCamera)
	if !ok {
		anchor = media.AngleA
	}
	session := &media.RecordingSession{
		ID:             sessionID,
		AnchorAngle:    anchor,
		SyncOffsetsMS:  make(map[media.CameraAngle]int, len(results.Offsets)),
		SyncConfidence: make(map[media.CameraAngle]float64, len(results.Confidence)),
		OperatorStatus: media.OperatorStatus(results.OperatorStatus),
	}
	if session.OperatorStatus == "" {
		session.OperatorStatus = media.OperatorPending
	}
	for camera, offset := range results.Offsets {
		if angle, ok := media.ParseAngle(camera); ok && angle != anchor {
			session.SyncOffsetsMS[angle] = offset
		}
	}
	for camera, score := range results.Confidence {
		if angle, ok := media.ParseAngle(camera); ok && angle != anchor {
			session.SyncConfidence[angle] = score
		}
	}
	return session, nil
}

// ApproveSync confirms the computed offsets without modification. A
// non-empty notes string is recorded with the approval.
func (c *Client) ApproveSync(ctx context.Context, sessionID, notes string) error {
	var body any
	if notes = strings.TrimSpace(notes); notes != "" {
		body = map[string]string{"notes": notes}
	}
	path := fmt.Sprintf("/api/recording-sessions/%s/sync/approve", sessionID)
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// CorrectSync replaces the computed offsets with operator-corrected values.
// A non-empty notes string is recorded with the correction.
func (c *Client) CorrectSync(ctx context.Context, sessionID string, offsets map[media.CameraAngle]int, notes string) error {
	corrected := make(map[string]int, len(offsets))
	for angle, ms := range offsets {
		corrected[string(angle)] = ms
	}
	body := map[string]any{"offsets": corrected}
	if notes = strings.TrimSpace(notes); notes != "" {
		body["notes"] = notes
	}
	path := fmt.Sprintf("/api/recording-sessions/%s/sync/correct", sessionID)
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// CreateRecordingSession creates a session from wizard data and returns
// the new session id.
func (c *Client) CreateRecordingSession(ctx context.Context, session NewSession) (string, error) {
	if len(session.Assets) != 3 {
		return "", services.Wrap(services.ErrValidation, "studio", "create session",
			fmt.Sprintf("expected 3 camera assets, got %d", len(session.Assets)), nil)
	}
	var out struct {
		Data struct {
			ID         int    `json:"id"`
			DocumentID string `json:"documentId"`
		} `json:"data"`
	}
	body := map[string]any{"data": session}
	if err := c.do(ctx, http.MethodPost, "/api/recording-sessions", body, &out); err != nil {
		return "", err
	}
	if out.Data.DocumentID != "" {
		return out.Data.DocumentID, nil
	}
	return fmt.Sprintf("%d", out.Data.ID), nil
}

// CreateAssetRecord registers an uploaded camera file and returns the
// asset record id used when creating the session.
func (c *Client) CreateAssetRecord(ctx context.Context, asset NewAsset) (string, error) {
	if asset.UploadStatus == "" {
		asset.UploadStatus = "complete"
	}
	var out struct {
		Data struct {
			ID         int    `json:"id"`
			DocumentID string `json:"documentId"`
		} `json:"data"`
	}
	body := map[string]any{"data": asset}
	if err := c.do(ctx, http.MethodPost, "/api/recording-assets", body, &out); err != nil {
		return "", err
	}
	if out.Data.DocumentID != "" {
		return out.Data.DocumentID, nil
	}
	return fmt.Sprintf("%d", out.Data.ID), nil
}
