// Package workflow defines the uniform item model every producing subsystem
// is normalized into, plus the ranking and filtering rules applied to the
// merged operator queue.
//
// Items are ephemeral read projections: the aggregator rebuilds them on every
// pass, so nothing here is persisted or mutated in place. Sorting is stable
// (priority rank ascending, then most recently updated first) and filtering
// is order-preserving.
package workflow
