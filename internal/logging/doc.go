// Package logging constructs the slog loggers used across slate.
//
// Two output formats exist: a compact console format for interactive use and
// JSON for machine consumption. Context helpers translate the identifiers
// stamped by internal/services (session id, category, camera angle,
// correlation id) into standardized structured fields so every component
// logs the same vocabulary.
package logging
