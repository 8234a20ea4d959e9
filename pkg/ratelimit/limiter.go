package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is the orchestrator: it applies the key prefix, invokes the
// configured Algorithm, races the result against a fail-open watchdog, and
// exposes Limit, GetRemaining, ResetUsedTokens, and BlockUntilReady.
type Limiter struct {
	algorithm Algorithm
	ec        EngineContext
	prefix    string
	timeout   time.Duration
	recorder  MetricsRecorder
}

// New builds a Limiter. WithAlgorithm is required; one of WithRedisClient or
// WithRedisOptions must supply a store.
func New(opts ...Option) (*Limiter, error) {
	cfg := config{
		prefix:   defaultPrefix,
		timeout:  defaultTimeout,
		recorder: NoOpMetricsRecorder{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.algorithm == nil {
		return nil, errors.New("ratelimit: WithAlgorithm is required")
	}

	client := cfg.client
	if client == nil {
		if cfg.redisOptions == nil {
			return nil, errors.New("ratelimit: one of WithRedisClient or WithRedisOptions is required")
		}
		client = redis.NewClient(cfg.redisOptions)
	}

	return &Limiter{
		algorithm: cfg.algorithm,
		ec:        EngineContext{Store: client, Status: StatusConnected},
		prefix:    cfg.prefix,
		timeout:   cfg.timeout,
		recorder:  cfg.recorder,
	}, nil
}

func (l *Limiter) key(id string) string {
	return l.prefix + ":" + id
}

type limitOutcome struct {
	resp Response
	err  error
}

// Limit applies req (or a default of 1 token) against id. If a watchdog
// timeout is configured, a store round-trip that does not return within it
// yields a synthetic fail-open response instead of blocking the caller
// indefinitely. The watchdog cancels only the client-side wait — a request
// already accepted by the store is not retracted.
func (l *Limiter) Limit(ctx context.Context, id string, req Request) (Response, error) {
	start := time.Now()
	resp, err := l.limit(ctx, id, req)
	l.recorder.Add("ratelimit.call", 1, map[string]string{"success": boolTag(resp.Success)})
	l.recorder.Observe("ratelimit.latency", time.Since(start).Seconds(), nil)
	return resp, err
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (l *Limiter) limit(ctx context.Context, id string, req Request) (Response, error) {
	key := l.key(id)

	if l.timeout <= 0 {
		return l.algorithm.Limit(ctx, l.ec, key, req)
	}

	callCtx, cancel := context.WithCancel(ctx)
	resultCh := make(chan limitOutcome, 1)

	go func() {
		resp, err := l.algorithm.Limit(callCtx, l.ec, key, req)
		resultCh <- limitOutcome{resp, err}
	}()

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case out := <-resultCh:
		cancel()
		return out.resp, out.err
	case <-timer.C:
		cancel()
		return Response{
			Success:   true,
			Limit:     0,
			Remaining: 0,
			Reset:     0,
			Reason:    ReasonTimeout,
			Pending:   resolvedPending(),
		}, nil
	}
}

// GetRemaining performs a non-mutating read of the current budget for id.
// It does not race a timeout.
func (l *Limiter) GetRemaining(ctx context.Context, id string) (remaining int64, reset int64, err error) {
	return l.algorithm.GetRemaining(ctx, l.ec, l.key(id))
}

// ResetUsedTokens deletes all keys held for id.
func (l *Limiter) ResetUsedTokens(ctx context.Context, id string) error {
	return l.algorithm.ResetTokens(ctx, l.ec, l.key(id)+":*")
}

// BlockUntilReady loops Limit(id) until it succeeds or maxWait elapses,
// sleeping between attempts until the predicted reset moment rather than
// busy-waiting. The final response is whatever Limit last returned, whether
// successful or not.
func (l *Limiter) BlockUntilReady(ctx context.Context, id string, maxWait time.Duration) (Response, error) {
	if maxWait <= 0 {
		return Response{}, ErrInvalidWaitTimeout
	}

	deadline := time.Now().Add(maxWait)

	for {
		res, err := l.Limit(ctx, id, Request{Rate: 1})
		if err != nil {
			return res, err
		}
		if res.Success {
			return res, nil
		}
		if res.Reset == 0 {
			return res, ErrInvalidReset
		}

		now := time.Now()
		resetAt := time.UnixMilli(res.Reset)
		wait := resetAt.Sub(now)
		if remaining := deadline.Sub(now); remaining < wait {
			wait = remaining
		}
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return res, ctx.Err()
			}
		}

		if time.Now().After(deadline) {
			return res, nil
		}
	}
}
