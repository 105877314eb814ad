package syncreview

import (
	"context"
	"log/slog"

	"slate/internal/logging"
	"slate/internal/media"
	"slate/internal/services"
)

// Decision is the operator's verdict on a session's computed alignment.
// The two outcomes are mutually exclusive: approving keeps the detector's
// offsets exactly as computed, correcting replaces them with the edited set.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionCorrect Decision = "correct"
)

// CameraReview is the per-camera row of a review plan.
type CameraReview struct {
	Angle          media.CameraAngle
	OffsetMS       int
	Confidence     float64
	Classification Classification
	NeedsAdjuster  bool
}

// Plan lays out a session review: one row per comparison camera, ordered
// by angle. Every camera below the looks-good threshold is flagged for
// the manual adjuster.
type Plan struct {
	SessionID string
	Anchor    media.CameraAngle
	Cameras   []CameraReview
}

// BuildPlan derives the review plan from a session's computed alignment.
// Cameras missing a confidence score are treated as unscored and routed to
// the manual bucket by Classify.
func BuildPlan(session *media.RecordingSession) Plan {
	plan := Plan{SessionID: session.ID, Anchor: session.Anchor()}
	for _, angle := range session.ComparisonAngles() {
		confidence, scored := session.SyncConfidence[angle]
		if !scored {
			confidence = 0
		}
		class := Classify(confidence)
		plan.Cameras = append(plan.Cameras, CameraReview{
			Angle:          angle,
			OffsetMS:       session.SyncOffsetsMS[angle],
			Confidence:     confidence,
			Classification: class,
			NeedsAdjuster:  class != LooksGood,
		})
	}
	return plan
}

// AllConfident reports whether every camera classified as looks-good.
func (p Plan) AllConfident() bool {
	for _, cam := range p.Cameras {
		if cam.Classification != LooksGood {
			return false
		}
	}
	return true
}

// Submitter records the operator's verdict with the studio backend. Notes
// are optional free text attached to the verdict; empty means none.
type Submitter interface {
	ApproveSync(ctx context.Context, sessionID, notes string) error
	CorrectSync(ctx context.Context, sessionID string, offsets map[media.CameraAngle]int, notes string) error
}

// Cockpit drives one session's sync review: it holds the plan, accumulates
// the operator's offset edits, and submits the final verdict.
type Cockpit struct {
	session   *media.RecordingSession
	plan      Plan
	edits     OffsetMap
	submitter Submitter
	logger    *slog.Logger
}

// NewCockpit builds a review cockpit for the given session.
func NewCockpit(session *media.RecordingSession, submitter Submitter, logger *slog.Logger) *Cockpit {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cockpit{
		session:   session,
		plan:      BuildPlan(session),
		edits:     make(OffsetMap),
		submitter: submitter,
		logger:    logger.With(logging.FieldComponent, "syncreview"),
	}
}

// Plan returns the review plan for display.
func (c *Cockpit) Plan() Plan {
	return c.plan
}

// HasEdits reports whether the operator changed any offset.
func (c *Cockpit) HasEdits() bool {
	return len(c.edits) > 0
}

// Edits returns a copy of the operator's pending offset changes.
func (c *Cockpit) Edits() OffsetMap {
	return c.edits.Clone()
}

// EffectiveOffset returns the offset currently in force for a camera:
// the operator's edit when one exists, the detector's value otherwise.
func (c *Cockpit) EffectiveOffset(angle media.CameraAngle) int {
	if ms, ok := c.edits[angle]; ok {
		return ms
	}
	return c.session.SyncOffsetsMS[angle]
}

// Nudge shifts a camera's offset by delta milliseconds, seeding the edit
// from the detector's value on first touch. Returns the resulting offset.
func (c *Cockpit) Nudge(angle media.CameraAngle, delta int) int {
	if _, ok := c.edits[angle]; !ok {
		c.edits[angle] = c.session.SyncOffsetsMS[angle]
	}
	return c.edits.Nudge(angle, delta)
}

// SetOffset records an absolute offset edit for a camera.
func (c *Cockpit) SetOffset(angle media.CameraAngle, ms int) {
	c.edits.Set(angle, ms)
}

// Reset discards a camera's pending edit, restoring the detector's value.
func (c *Cockpit) Reset(angle media.CameraAngle) {
	delete(c.edits, angle)
}

// Approve records the session as approved with the detector's original
// offsets, optionally annotated with notes. Approval is refused while
// edits are pending: an operator who changed an offset must either reset
// it or submit a correction.
func (c *Cockpit) Approve(ctx context.Context, notes string) error {
	if c.HasEdits() {
		return services.Wrap(services.ErrValidation, "syncreview", "approve",
			"pending offset edits must be reset or submitted as a correction", nil)
	}
	if err := c.submitter.ApproveSync(ctx, c.session.ID, notes); err != nil {
		return services.Wrap(nil, "syncreview", "approve", "submit approval", err)
	}
	c.session.OperatorStatus = media.OperatorApproved
	c.logger.InfoContext(ctx, "sync approved", logging.FieldSessionID, c.session.ID)
	return nil
}

// Correct submits the operator's edited offsets, optionally annotated
// with notes. Unedited cameras keep the detector's values. Edits are
// retained when submission fails so the operator can retry without
// redoing the adjustment.
func (c *Cockpit) Correct(ctx context.Context, notes string) error {
	if !c.HasEdits() {
		return services.Wrap(services.ErrValidation, "syncreview", "correct",
			"no offset edits to submit, approve instead", nil)
	}
	offsets := make(map[media.CameraAngle]int, len(c.plan.Cameras))
	for _, angle := range c.session.ComparisonAngles() {
		offsets[angle] = c.EffectiveOffset(angle)
	}
	if err := c.submitter.CorrectSync(ctx, c.session.ID, offsets, notes); err != nil {
		return services.Wrap(nil, "syncreview", "correct", "submit correction", err)
	}
	for angle, ms := range offsets {
		c.session.SyncOffsetsMS[angle] = ms
	}
	c.session.OperatorStatus = media.OperatorCorrected
	c.edits = make(OffsetMap)
	c.logger.InfoContext(ctx, "sync corrected", logging.FieldSessionID, c.session.ID)
	return nil
}
