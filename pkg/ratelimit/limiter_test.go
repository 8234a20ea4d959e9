package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_LimitAndGetRemaining(t *testing.T) {
	_, client := newTestStore(t)
	lim, err := New(
		WithAlgorithm(FixedWindow(3, 10*time.Second)),
		WithRedisClient(client),
		WithPrefix(testID(t)),
	)
	require.NoError(t, err)

	ctx := context.Background()
	id := "user_1"

	res, err := lim.Limit(ctx, id, Request{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(2), res.Remaining)

	remaining, _, err := lim.GetRemaining(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), remaining)
}

func TestLimiter_ResetUsedTokens(t *testing.T) {
	_, client := newTestStore(t)
	lim, err := New(
		WithAlgorithm(FixedWindow(1, 10*time.Second)),
		WithRedisClient(client),
		WithPrefix(testID(t)),
	)
	require.NoError(t, err)

	ctx := context.Background()
	id := "user_1"

	res, err := lim.Limit(ctx, id, Request{})
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = lim.Limit(ctx, id, Request{})
	require.NoError(t, err)
	assert.False(t, res.Success)

	require.NoError(t, lim.ResetUsedTokens(ctx, id))

	res, err = lim.Limit(ctx, id, Request{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(0), res.Remaining)
}

func TestLimiter_New_RequiresAlgorithmAndStore(t *testing.T) {
	_, err := New()
	assert.Error(t, err)

	_, err = New(WithAlgorithm(FixedWindow(1, time.Second)))
	assert.Error(t, err)
}

// slowStore wraps a real redis.Cmdable but delays every EvalSha call,
// simulating a store that is unreachable or too slow to answer within the
// watchdog window.
type slowStore struct {
	redis.Cmdable
	delay time.Duration
}

func (s *slowStore) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
	}
	return s.Cmdable.EvalSha(ctx, sha1, keys, args...)
}

func TestLimiter_FailOpenOnTimeout(t *testing.T) {
	_, client := newTestStore(t)
	slow := &slowStore{Cmdable: client, delay: time.Second}

	lim, err := New(
		WithAlgorithm(FixedWindow(1, 10*time.Second)),
		WithRedisClient(slow),
		WithTimeout(100*time.Millisecond),
	)
	require.NoError(t, err)

	start := time.Now()
	res, err := lim.Limit(context.Background(), "user_1", Request{})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, ReasonTimeout, res.Reason)
	assert.Equal(t, int64(0), res.Reset)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestLimiter_BlockUntilReady_NegativeTimeout(t *testing.T) {
	_, client := newTestStore(t)
	lim, err := New(
		WithAlgorithm(FixedWindow(1, time.Second)),
		WithRedisClient(client),
	)
	require.NoError(t, err)

	_, err = lim.BlockUntilReady(context.Background(), "user_1", -100*time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidWaitTimeout)
}

func TestLimiter_BlockUntilReady_WaitsForReset(t *testing.T) {
	_, client := newTestStore(t)
	lim, err := New(
		WithAlgorithm(FixedWindow(2, 1500*time.Millisecond)),
		WithRedisClient(client),
		WithPrefix(testID(t)),
	)
	require.NoError(t, err)

	ctx := context.Background()
	id := "user_1"

	for i := 0; i < 2; i++ {
		res, err := lim.Limit(ctx, id, Request{})
		require.NoError(t, err)
		require.True(t, res.Success)
	}

	start := time.Now()
	res, err := lim.BlockUntilReady(ctx, id, 3*time.Second)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Less(t, elapsed, 3*time.Second)
}

func TestLimiter_BlockUntilReady_DeadlineExceeded(t *testing.T) {
	_, client := newTestStore(t)
	lim, err := New(
		WithAlgorithm(FixedWindow(1, 10*time.Second)),
		WithRedisClient(client),
		WithPrefix(testID(t)),
	)
	require.NoError(t, err)

	ctx := context.Background()
	id := "user_1"

	res, err := lim.Limit(ctx, id, Request{})
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = lim.BlockUntilReady(ctx, id, 200*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, res.Success)
}
