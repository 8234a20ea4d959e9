package ratelimit

import (
	"context"
	_ "embed"

	"github.com/redis/go-redis/v9"
)

//go:embed reset.lua
var resetScriptText string

var resetInfo = newScriptInfo(resetScriptText)

const (
	resetBatchSize  = 100
	resetMaxDeletes = 1000
)

// resetPattern runs the scan-and-unlink script once against pattern. The
// script stops early with a non-zero cursor only after resetMaxDeletes
// deletions; this package does not re-invoke it to pick up the rest, which is
// acceptable for the typical per-identifier cardinality of at most two live
// keys (documented limitation for identifiers with >1000 keys).
func resetPattern(ctx context.Context, store redis.Cmdable, pattern string) error {
	_, err := execScript(ctx, store, resetInfo, nil, pattern, "0", resetBatchSize, resetMaxDeletes)
	if err != nil {
		return &ScriptError{Algorithm: "reset", Op: "resetTokens", Err: err}
	}
	return nil
}
