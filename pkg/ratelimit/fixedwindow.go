package ratelimit

import (
	"context"
	_ "embed"
	"strconv"
	"time"
)

//go:embed fixedwindow_limit.lua
var fixedWindowLimitScript string

//go:embed fixedwindow_getremaining.lua
var fixedWindowGetRemainingScript string

type fixedWindow struct {
	tokens   int64
	windowMs int64
	now      func() int64

	limitInfo        scriptInfo
	getRemainingInfo scriptInfo
}

// FixedWindow builds an Algorithm that admits at most tokens requests per
// window, counted against a bucket identified by floor(nowMs/windowMs).
func FixedWindow(tokens int64, window time.Duration) Algorithm {
	return &fixedWindow{
		tokens:           tokens,
		windowMs:         window.Milliseconds(),
		now:              nowMillis,
		limitInfo:        newScriptInfo(fixedWindowLimitScript),
		getRemainingInfo: newScriptInfo(fixedWindowGetRemainingScript),
	}
}

func (f *fixedWindow) bucket(now int64) int64 {
	return now / f.windowMs
}

func (f *fixedWindow) Limit(ctx context.Context, ec EngineContext, key string, req Request) (Response, error) {
	now := f.now()
	bucket := f.bucket(now)
	fullKey := key + ":" + strconv.FormatInt(bucket, 10)

	reply, err := execScript(ctx, ec.Store, f.limitInfo, []string{fullKey}, f.windowMs, incrementBy(req.Rate))
	if err != nil {
		return Response{}, &ScriptError{Algorithm: "fixedWindow", Op: "limit", Err: err}
	}

	count := toInt64(reply)
	remaining := f.tokens - count
	if remaining < 0 {
		remaining = 0
	}

	return Response{
		Success:   count <= f.tokens,
		Limit:     f.tokens,
		Remaining: remaining,
		Reset:     (bucket + 1) * f.windowMs,
		Pending:   resolvedPending(),
	}, nil
}

func (f *fixedWindow) GetRemaining(ctx context.Context, ec EngineContext, key string) (int64, int64, error) {
	now := f.now()
	bucket := f.bucket(now)
	fullKey := key + ":" + strconv.FormatInt(bucket, 10)

	reply, err := execScript(ctx, ec.Store, f.getRemainingInfo, []string{fullKey})
	if err != nil {
		return 0, 0, &ScriptError{Algorithm: "fixedWindow", Op: "getRemaining", Err: err}
	}

	count := toInt64(reply)
	remaining := f.tokens - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, (bucket + 1) * f.windowMs, nil
}

func (f *fixedWindow) ResetTokens(ctx context.Context, ec EngineContext, pattern string) error {
	return resetPattern(ctx, ec.Store, pattern)
}
