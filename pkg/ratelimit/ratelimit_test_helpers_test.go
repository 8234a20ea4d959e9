package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// fakeClock is an injectable now() source for algorithms under test.
// White-box tests in this package construct algorithms directly so they can
// swap in fakeClock.now for deterministic window and refill boundary
// assertions, mirroring the injected `now func() time.Time` pattern other
// clock-sensitive limiter implementations use.
type fakeClock struct {
	mu  sync.Mutex
	cur int64
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{cur: start.UnixMilli()}
}

func (c *fakeClock) now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur += d.Milliseconds()
}

// newTestStore spins up a miniredis instance (which embeds gopher-lua, so
// EVALSHA/SCRIPT LOAD/SCAN/UNLINK all work) and returns a real go-redis
// client pointed at it, plus the server so tests can FastForward simulated
// time for expiry-dependent assertions.
func newTestStore(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return server, client
}

func testContext(client *redis.Client) EngineContext {
	return EngineContext{Store: client, Status: StatusConnected}
}

// testID mints a unique identifier per test (the test name plus a UUID) so
// keys from different tests never collide.
func testID(t *testing.T) string {
	t.Helper()
	return t.Name() + "-" + uuid.NewString()
}

