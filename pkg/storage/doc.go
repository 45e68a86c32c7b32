// Package storage persists per-owner account snapshots behind a backend
// selected by configuration: in-memory (default), MongoDB or PostgreSQL.
// All backends share the same missing-owner contract: loading an owner
// with nothing stored returns an empty snapshot rather than an error.
package storage
