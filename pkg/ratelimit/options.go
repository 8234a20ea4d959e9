package ratelimit

import (
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix  = "@hummn/ratelimit"
	defaultTimeout = 5 * time.Second
)

type config struct {
	algorithm    Algorithm
	client       redis.Cmdable
	redisOptions *redis.Options
	prefix       string
	timeout      time.Duration
	recorder     MetricsRecorder
}

// Option configures a Limiter built by New: algorithm selection, store
// wiring (a pre-built client or connection options), key prefix, watchdog
// timeout, and metrics recorder all go through the same constructor config.
type Option func(*config)

// WithAlgorithm selects the admission strategy. Required.
func WithAlgorithm(a Algorithm) Option {
	return func(c *config) { c.algorithm = a }
}

// WithRedisClient supplies a pre-built store client.
func WithRedisClient(client redis.Cmdable) Option {
	return func(c *config) { c.client = client }
}

// WithRedisOptions builds a *redis.Client from connection options instead of
// requiring a pre-built one.
func WithRedisOptions(opts *redis.Options) Option {
	return func(c *config) { c.redisOptions = opts }
}

// WithPrefix sets the key prefix. Default "@hummn/ratelimit".
func WithPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}

// WithTimeout sets the watchdog timeout. Default 5s; 0 disables it
// (fail-closed: transport errors propagate instead of being masked).
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) { c.timeout = timeout }
}

// WithRecorder injects a MetricsRecorder. Default NoOpMetricsRecorder.
func WithRecorder(recorder MetricsRecorder) Option {
	return func(c *config) { c.recorder = recorder }
}
