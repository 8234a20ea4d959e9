// Package ratelimit provides distributed rate limiting backed by a
// Redis-compatible store.
//
// The primary entry point is Limiter:
//
//	lim, err := ratelimit.New(
//		ratelimit.WithAlgorithm(ratelimit.FixedWindow(10, 10*time.Second)),
//		ratelimit.WithRedisClient(client),
//	)
//	res, err := lim.Limit(ctx, "user_123", ratelimit.Request{})
//
// The returned Response reports whether the request is admitted, how many
// tokens remain, and the absolute reset time, in millisecond Unix time.
//
// # Algorithms
//
// Three interchangeable algorithms implement the same Algorithm capability
// (limit, getRemaining, resetTokens):
//
//   - FixedWindow: counts requests in a bucket keyed by floor(now/window).
//     Simple and O(1), but bursts across a window boundary.
//   - SlidingWindow: corrects the boundary burst by weighting the previous
//     bucket's count by how far "now" has progressed into the current one.
//   - TokenBucket: refills tokens once per whole interval up to a cap, naturally
//     supporting bursts while enforcing a long-term average rate.
//
// Each algorithm executes as a single atomic Lua script per call — the
// read/compute/write cycle never splits across round-trips, so concurrent
// callers for the same identifier see a linearizable sequence of decisions.
//
// # Atomicity and script caching
//
// Algorithms invoke scripts by SHA-1 via EVALSHA. If the store reports the
// hash is unknown (for example after a restart), the call transparently
// falls back to SCRIPT LOAD and retries once; this recovery never reaches
// the caller as an error.
//
// # Fail-open timeout
//
// Limiter races every Limit call against a watchdog timeout (default 5s;
// disable with WithTimeout(0)). If the store does not answer in time, Limit
// returns a permissive response with Reason "timeout" instead of blocking
// the caller — this package treats availability as more important than
// strict enforcement when the store itself is unreachable or slow. Setting
// the timeout to 0 switches to fail-closed: transport errors propagate.
//
// # BlockUntilReady
//
// BlockUntilReady repeatedly calls Limit, sleeping until the predicted reset
// moment between attempts, until either a call succeeds or a caller-supplied
// deadline elapses. It never busy-waits.
//
// # Resetting usage
//
// ResetUsedTokens deletes all Redis keys for one identifier via a
// SCAN+UNLINK script. The script is invoked once and scans until the keyspace
// is covered or 1000 keys have been deleted; for identifiers with more live
// keys than that, stragglers may survive — in
// practice each identifier holds at most two live keys, so this is
// acceptable.
//
// # Store collaborator
//
// Every algorithm is written against redis.Cmdable rather than a concrete
// client type, so a *redis.Client, a cluster client, a ring, or a test
// double (for example one backed by miniredis) all work unmodified.
//
// # Concurrency
//
// Algorithms and Limiter hold no mutable state beyond their configuration.
// The store client is expected to be safe for concurrent use, which is the
// typical contract for Redis clients including go-redis.
package ratelimit
