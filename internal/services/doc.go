// Package services defines shared utilities consumed by the inbox
// aggregator, the session wizard, and the studio backend integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session identifiers, workflow categories,
//     camera angles, and correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (validation vs transient vs unavailable) consistent
//     across components.
//
// Use these helpers when wiring new workflow logic so operational behaviour
// (error handling, observability, retries) stays uniform across the toolkit.
package services
