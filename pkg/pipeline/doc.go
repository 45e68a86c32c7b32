// Package pipeline orchestrates the full analysis run: resolve the account
// reference, fetch the raw record, normalize it into the canonical shapes
// and derive the stats block. It also fans multi-account refreshes out
// across a bounded worker pool, treating per-account failures as partial
// results rather than batch failures.
package pipeline
