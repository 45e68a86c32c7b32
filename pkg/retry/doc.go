// Package retry implements retry with pluggable backoff for the fetch
// collaborator. Only transient failures (network, rate limit, 5xx) are
// retried; resolution and no-data failures surface immediately.
package retry
