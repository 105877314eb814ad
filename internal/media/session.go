package media

import (
	"fmt"
	"strings"
	"time"
)

// CameraAngle identifies one of the three fixed camera positions.
type CameraAngle string

const (
	AngleA CameraAngle = "A"
	AngleB CameraAngle = "B"
	AngleC CameraAngle = "C"
)

var allAngles = []CameraAngle{AngleA, AngleB, AngleC}

// AllAngles returns the fixed camera angle set in display order.
func AllAngles() []CameraAngle {
	cp := make([]CameraAngle, len(allAngles))
	copy(cp, allAngles)
	return cp
}

// ParseAngle converts a string into a known CameraAngle.
func ParseAngle(value string) (CameraAngle, bool) {
	normalized := CameraAngle(strings.ToUpper(strings.TrimSpace(value)))
	for _, angle := range allAngles {
		if angle == normalized {
			return normalized, true
		}
	}
	return "", false
}

// OperatorStatus tracks the human decision state of a session's sync review.
type OperatorStatus string

const (
	OperatorPending   OperatorStatus = "pending"
	OperatorApproved  OperatorStatus = "approved"
	OperatorCorrected OperatorStatus = "corrected"
)

// RecordingSession is a multi-camera recording with computed audio alignment.
// Offsets and confidences are keyed by non-anchor angle only: the anchor is
// the timing reference and never appears in either map.
type RecordingSession struct {
	ID             string
	Title          string
	Description    string
	EventType      string
	RecordingDate  time.Time
	AnchorAngle    CameraAngle
	Assets         map[CameraAngle]string
	SyncOffsetsMS  map[CameraAngle]int
	SyncConfidence map[CameraAngle]float64
	OperatorStatus OperatorStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Anchor returns the session's anchor angle, defaulting to A when unset.
func (s *RecordingSession) Anchor() CameraAngle {
	if s == nil || s.AnchorAngle == "" {
		return AngleA
	}
	return s.AnchorAngle
}

// ComparisonAngles returns the non-anchor angles in display order.
func (s *RecordingSession) ComparisonAngles() []CameraAngle {
	anchor := s.Anchor()
	out := make([]CameraAngle, 0, len(allAngles)-1)
	for _, angle := range allAngles {
		if angle != anchor {
			out = append(out, angle)
		}
	}
	return out
}

// Validate enforces session invariants: all three camera slots populated and
// the anchor absent from the offset and confidence maps.
func (s *RecordingSession) Validate() error {
	for _, angle := range allAngles {
		if s.Assets[angle] == "" {
			return fmt.Errorf("recording session %s: camera %s has no asset", s.ID, angle)
		}
	}
	anchor := s.Anchor()
	if _, ok := s.SyncOffsetsMS[anchor]; ok {
		return fmt.Errorf("recording session %s: anchor %s must not carry an offset", s.ID, anchor)
	}
	if _, ok := s.SyncConfidence[anchor]; ok {
		return fmt.Errorf("recording session %s: anchor %s must not carry a confidence", s.ID, anchor)
	}
	return nil
}
