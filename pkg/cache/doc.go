// Package cache stores computed layouts so repeated requests skip the
// keyline solver.
//
// Three backends implement [Cache]: [NullCache] (disabled), [FileCache]
// (CLI, one JSON file per entry, writers serialized by a lock file) and
// [RedisCache] (server). Keys come from a [Keyer]; [ScopedKeyer] prefixes
// them for shared deployments.
//
// Remote failures are wrapped with [Retryable] and retried by
// [RetryWithBackoff] (three attempts, doubling delay).
package cache
