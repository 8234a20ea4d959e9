package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnStatus reports whether the store collaborator is believed to be
// reachable. It is informational only; nothing in this package branches on
// it.
type ConnStatus string

const (
	StatusConnected    ConnStatus = "connected"
	StatusDisconnected ConnStatus = "disconnected"
)

// EngineContext bundles the store collaborator with its connection status.
//
// Store is typed as redis.Cmdable rather than a concrete *redis.Client so a
// cluster client, a ring, or a miniredis-backed test client all satisfy it
// through the same Do/EvalSha/ScriptLoad/Scan surface. redis.Cmdable's
// Do(ctx, args...) method plays the role of the single SendCommand
// capability the engine is specified to consume.
type EngineContext struct {
	Store  redis.Cmdable
	Status ConnStatus
}

// Reason annotates a Response when the decision did not come from a normal
// store-sourced read.
type Reason string

const (
	ReasonTimeout    Reason = "timeout"
	ReasonCacheBlock Reason = "cacheBlock"
	ReasonDenyList   Reason = "denyList"
)

// Request is what a caller hands to Limit for a single admission decision.
type Request struct {
	// Rate is the number of tokens this call consumes. Values <= 0 default
	// to 1.
	Rate int64
}

// Response is the outcome of a single admission decision.
type Response struct {
	Success   bool
	Limit     int64
	Remaining int64
	// Reset is a wall-clock millisecond timestamp, or 0 for the synthetic
	// timeout response.
	Reset int64
	// Reason is empty on a normal store-sourced decision.
	Reason Reason
	// Pending is always already-resolved in this engine; it exists so a
	// future analytics/multi-region variant can attach a background task to
	// a decision without changing the return shape.
	Pending <-chan struct{}
}

func resolvedPending() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Algorithm is the capability bundle shared by all three admission
// strategies. A tagged-variant type would be equally valid; this package
// uses an interface because the three implementations share no state.
type Algorithm interface {
	// Limit consumes incrementBy(req) tokens for key atomically and reports
	// the resulting decision.
	Limit(ctx context.Context, ec EngineContext, key string, req Request) (Response, error)
	// GetRemaining performs a non-mutating read of the current budget for
	// key.
	GetRemaining(ctx context.Context, ec EngineContext, key string) (remaining int64, reset int64, err error)
	// ResetTokens deletes all state for the identifier behind key.
	ResetTokens(ctx context.Context, ec EngineContext, pattern string) error
}

// incrementBy applies the spec's max(1, rate) convention.
func incrementBy(rate int64) int64 {
	if rate < 1 {
		return 1
	}
	return rate
}

// nowMillis is the default time source: wall-clock milliseconds.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
