package ratelimit

import "time"

// ParseWindow accepts short human-duration expressions like "10s", "1m",
// "30m", "2s", "1s" and returns the time.Duration they denote.
// time.ParseDuration already implements
// exactly that grammar (and a superset of it), so this is a thin, named
// entry point rather than a reimplementation, kept for callers building
// FixedWindow/SlidingWindow/TokenBucket configuration from strings (env
// vars, flags, config files) instead of literal time.Duration values.
func ParseWindow(expr string) (time.Duration, error) {
	return time.ParseDuration(expr)
}
