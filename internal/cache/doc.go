// Package cache implements the freshness-gated cache over the upstream
// pronoun API.
//
// Resource[T] is one cached upstream entity. Its refresh policy, by age of
// the cached payload:
//
//	age > RefreshMax           → fetch allowed (staleness always wins)
//	force && age > RefreshMin  → fetch allowed (cooldown elapsed)
//	otherwise                  → NotDueError (keep serving cached data)
//
// An upstream 404 is a cacheable success: the configured sentinel payload is
// stored and expires under the same TTL, so repeated lookups of unregistered
// users don't reach the upstream. Any other failure leaves the cached
// payload and its timestamp untouched.
//
// Dictionary is the singleton pronoun-definitions resource; Users maps
// lowercased logins to per-user resources and owns the eviction sweeper
// (Run) that bounds memory growth.
package cache
