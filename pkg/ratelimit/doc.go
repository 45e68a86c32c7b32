// Package ratelimit provides rate limiting for outbound fetch requests.
//
// The fetch collaborator talks to an endpoint that throttles aggressive
// clients, so every profile or post fetch first acquires a token from a
// shared bucket. The bucket refills wholesale once per period rather than
// continuously, which matches per-minute request quotas.
package ratelimit
