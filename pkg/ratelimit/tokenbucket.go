package ratelimit

import (
	"context"
	_ "embed"
	"strings"
	"time"
)

//go:embed tokenbucket_limit.lua
var tokenBucketLimitScript string

//go:embed tokenbucket_getremaining.lua
var tokenBucketGetRemainingScript string

type tokenBucket struct {
	refillRate int64
	intervalMs int64
	maxTokens  int64
	now        func() int64

	limitInfo        scriptInfo
	getRemainingInfo scriptInfo
}

// TokenBucket builds an Algorithm that refills maxTokens at refillRate
// tokens per interval, capping burst at maxTokens.
func TokenBucket(refillRate int64, interval time.Duration, maxTokens int64) Algorithm {
	return &tokenBucket{
		refillRate:       refillRate,
		intervalMs:       interval.Milliseconds(),
		maxTokens:        maxTokens,
		now:              nowMillis,
		limitInfo:        newScriptInfo(tokenBucketLimitScript),
		getRemainingInfo: newScriptInfo(tokenBucketGetRemainingScript),
	}
}

// The script's reply is a four-element array: success(0|1), limit,
// remaining, delta-ms-until-reset. Limit computes the absolute reset
// timestamp as now+delta.
func (t *tokenBucket) Limit(ctx context.Context, ec EngineContext, key string, req Request) (Response, error) {
	now := t.now()

	reply, err := execScript(ctx, ec.Store, t.limitInfo, []string{key},
		t.maxTokens, t.intervalMs, t.refillRate, now, incrementBy(req.Rate))
	if err != nil {
		return Response{}, &ScriptError{Algorithm: "tokenBucket", Op: "limit", Err: err}
	}

	values, ok := resultSlice(reply)
	if !ok || len(values) != 4 {
		return Response{}, &ScriptError{Algorithm: "tokenBucket", Op: "limit", Err: errInvalidReply}
	}

	success := toInt64(values[0]) == 1
	limit := toInt64(values[1])
	remaining := toInt64(values[2])
	delta := toInt64(values[3])

	return Response{
		Success:   success,
		Limit:     limit,
		Remaining: remaining,
		Reset:     now + delta,
		Pending:   resolvedPending(),
	}, nil
}

func (t *tokenBucket) GetRemaining(ctx context.Context, ec EngineContext, key string) (int64, int64, error) {
	now := t.now()

	reply, err := execScript(ctx, ec.Store, t.getRemainingInfo, []string{key}, t.maxTokens)
	if err != nil {
		return 0, 0, &ScriptError{Algorithm: "tokenBucket", Op: "getRemaining", Err: err}
	}

	values, ok := resultSlice(reply)
	if !ok || len(values) != 2 {
		return 0, 0, &ScriptError{Algorithm: "tokenBucket", Op: "getRemaining", Err: errInvalidReply}
	}

	tokens := toInt64(values[0])
	refilledAtOrSentinel := toInt64(values[1])

	if refilledAtOrSentinel == -1 {
		return tokens, now + t.intervalMs, nil
	}
	return tokens, refilledAtOrSentinel + t.intervalMs, nil
}

// ResetTokens deletes the bucket hash. The bucket lives at the bare key (no
// suffix), which a "<key>:*" pattern does not match, so a trailing ":*" is
// dropped before scanning.
func (t *tokenBucket) ResetTokens(ctx context.Context, ec EngineContext, pattern string) error {
	return resetPattern(ctx, ec.Store, strings.TrimSuffix(pattern, ":*"))
}
