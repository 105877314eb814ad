// Package syncreview implements the operator review of computed multi-camera
// audio alignment: confidence classification, bounded offset editing, and the
// approve or correct verdict.
package syncreview
