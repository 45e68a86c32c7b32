// Package instagram talks to the external scraping provider and owns
// everything platform specific: account reference resolution, endpoint
// construction, the raw record shapes the provider returns, and the
// rate-limited, retrying HTTP client that fetches them.
//
// Raw records are deliberately loose. The provider is an unreliable
// upstream that omits and renames fields between runs, so the types here
// accept whatever arrives and leave canonicalization to pkg/analytics.
package instagram
