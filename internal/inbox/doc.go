// Package inbox assembles the operator attention queue: it pulls items
// from every workflow subsystem in parallel, normalizes them into one
// prioritized list, and routes operator actions back to the backend.
package inbox
