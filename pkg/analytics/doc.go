// Package analytics is the computational core of the pipeline. It owns the
// canonical Profile/Post/Analytics shapes, normalizes raw provider records
// into them, extracts hashtags and mentions from captions, and derives the
// full Stats block for a bounded post window.
//
// All derivation is pure and deterministic. The hard contract is that
// insufficient data (empty window, zero followers, single post) degrades to
// documented zero/empty/"Unknown" values; callers never special-case "not
// enough data" and nothing in this package returns an error.
package analytics
