package syncreview

import "slate/internal/media"

// Offset bounds in milliseconds. Adjustments beyond five seconds in either
// direction indicate a detector failure rather than a correction, so edits
// saturate at these limits.
const (
	MinOffsetMS = -5000
	MaxOffsetMS = 5000
)

// Nudge step sizes exposed by the adjuster, in milliseconds.
var NudgeSteps = []int{100, 500, 1000}

// ClampOffset saturates an offset to the editable range.
func ClampOffset(ms int) int {
	if ms < MinOffsetMS {
		return MinOffsetMS
	}
	if ms > MaxOffsetMS {
		return MaxOffsetMS
	}
	return ms
}

// OffsetMap holds per-camera offset edits made during a review.
type OffsetMap map[media.CameraAngle]int

// Clone returns an independent copy of the map.
func (m OffsetMap) Clone() OffsetMap {
	cp := make(OffsetMap, len(m))
	for angle, ms := range m {
		cp[angle] = ms
	}
	return cp
}

// Set records an absolute offset for a camera, clamped to the valid range.
func (m OffsetMap) Set(angle media.CameraAngle, ms int) {
	m[angle] = ClampOffset(ms)
}

// Nudge shifts a camera's offset by delta milliseconds and returns the
// resulting value. The result is clamped, so repeated nudges at a bound
// are no-ops.
func (m OffsetMap) Nudge(angle media.CameraAngle, delta int) int {
	next := ClampOffset(m[angle] + delta)
	m[angle] = next
	return next
}
