package ratelimit

import (
	"context"
	_ "embed"
	"strconv"
	"time"
)

//go:embed slidingwindow_limit.lua
var slidingWindowLimitScript string

//go:embed slidingwindow_getremaining.lua
var slidingWindowGetRemainingScript string

type slidingWindow struct {
	tokens   int64
	windowMs int64
	now      func() int64

	limitInfo        scriptInfo
	getRemainingInfo scriptInfo
}

// SlidingWindow builds an Algorithm that corrects fixed window's boundary
// burst by weighting the previous bucket's count by how far the current
// time has progressed into the current bucket.
func SlidingWindow(tokens int64, window time.Duration) Algorithm {
	return &slidingWindow{
		tokens:           tokens,
		windowMs:         window.Milliseconds(),
		now:              nowMillis,
		limitInfo:        newScriptInfo(slidingWindowLimitScript),
		getRemainingInfo: newScriptInfo(slidingWindowGetRemainingScript),
	}
}

func (s *slidingWindow) buckets(now int64) (currentBucket int64, curSuffix, prevSuffix string) {
	currentBucket = now / s.windowMs
	previousBucket := currentBucket - 1
	return currentBucket, strconv.FormatInt(currentBucket, 10), strconv.FormatInt(previousBucket, 10)
}

func (s *slidingWindow) Limit(ctx context.Context, ec EngineContext, key string, req Request) (Response, error) {
	now := s.now()
	currentBucket, curSuffix, prevSuffix := s.buckets(now)
	currentKey := key + ":" + curSuffix
	previousKey := key + ":" + prevSuffix

	reply, err := execScript(ctx, ec.Store, s.limitInfo, []string{currentKey, previousKey},
		s.tokens, now, s.windowMs, incrementBy(req.Rate))
	if err != nil {
		return Response{}, &ScriptError{Algorithm: "slidingWindow", Op: "limit", Err: err}
	}

	remaining := toInt64(reply)
	reset := (currentBucket + 1) * s.windowMs

	if remaining < 0 {
		return Response{
			Success:   false,
			Limit:     s.tokens,
			Remaining: 0,
			Reset:     reset,
			Pending:   resolvedPending(),
		}, nil
	}

	return Response{
		Success:   true,
		Limit:     s.tokens,
		Remaining: remaining,
		Reset:     reset,
		Pending:   resolvedPending(),
	}, nil
}

func (s *slidingWindow) GetRemaining(ctx context.Context, ec EngineContext, key string) (int64, int64, error) {
	now := s.now()
	currentBucket, curSuffix, prevSuffix := s.buckets(now)
	currentKey := key + ":" + curSuffix
	previousKey := key + ":" + prevSuffix

	reply, err := execScript(ctx, ec.Store, s.getRemainingInfo, []string{currentKey, previousKey}, now, s.windowMs)
	if err != nil {
		return 0, 0, &ScriptError{Algorithm: "slidingWindow", Op: "getRemaining", Err: err}
	}

	used := toInt64(reply)
	remaining := s.tokens - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, (currentBucket + 1) * s.windowMs, nil
}

func (s *slidingWindow) ResetTokens(ctx context.Context, ec EngineContext, pattern string) error {
	return resetPattern(ctx, ec.Store, pattern)
}
