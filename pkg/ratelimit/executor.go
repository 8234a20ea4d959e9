package ratelimit

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// execScript runs info by hash via EVALSHA. If the store reports the hash
// is unknown (a NOSCRIPT error), it loads the script and retries the
// EVALSHA once with the original arguments. Any other error is returned
// unchanged — this is the only retry execScript performs.
func execScript(ctx context.Context, store redis.Cmdable, info scriptInfo, keys []string, args ...interface{}) (interface{}, error) {
	reply, err := store.EvalSha(ctx, info.Hash, keys, args...).Result()
	if err == nil {
		return reply, nil
	}
	if !isNoScript(err) {
		return nil, err
	}

	if _, loadErr := store.ScriptLoad(ctx, info.Script).Result(); loadErr != nil {
		return nil, loadErr
	}

	return store.EvalSha(ctx, info.Hash, keys, args...).Result()
}

func isNoScript(err error) bool {
	return strings.Contains(strings.ToUpper(err.Error()), "NOSCRIPT")
}

// resultSlice coerces a script reply that must be an array into []interface{}.
func resultSlice(reply interface{}) ([]interface{}, bool) {
	values, ok := reply.([]interface{})
	return values, ok
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	}
	return 0
}
