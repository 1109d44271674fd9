// Package cache provides the two-tier result cache for tool executions.
//
// Results are memoized under deterministic fingerprints (canonical JSON,
// SHA-256) namespaced by tool. A primary entry lives for the tool's TTL; a
// longer-lived stale copy is retained for degraded serving through provider
// outages. The Tiered store prefers an external Redis tier and transparently
// falls back to the local memory tier on any I/O error, so a cache outage
// never fails the tool call itself.
package cache
