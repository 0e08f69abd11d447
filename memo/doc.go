// Package memo provides a keyed async memoization cache for expensive
// read queries.
//
// A Memo wraps an asynchronous producer function and deduplicates
// concurrent and recent calls per key: callers arriving while a
// computation for an equal key is still in flight join it, and callers
// arriving after it succeeded reuse the result for a configurable
// freshness window. Keys of arbitrary structure are reduced to a
// canonical SHA-256 digest, so field ordering never splits the cache.
// Capacity is bounded by least-recently-used eviction, and entries can
// be invalidated manually per key or wholesale.
//
// Failures are never cached: every caller arriving after a failed
// computation triggers a fresh attempt.
package memo
