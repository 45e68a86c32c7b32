package analytics

// MergeAnalytics merges freshly computed per-handle reports into a prior
// handle-keyed map, returning a new map. Neither input is mutated; this
// replaces the read-modify-write against a shared document the persistence
// layer would otherwise need.
func MergeAnalytics(prior, updates map[string]*Analytics) map[string]*Analytics {
	merged := make(map[string]*Analytics, len(prior)+len(updates))
	for handle, report := range prior {
		merged[handle] = report
	}
	for handle, report := range updates {
		merged[handle] = report
	}
	return merged
}
