// Package media holds the shared recording-session domain model: camera
// angles, the three-camera session record, and its alignment invariants.
package media
