package ratelimit

import (
	"crypto/sha1"
	"encoding/hex"
)

// scriptInfo pairs a Lua script's source with its SHA-1 hash so the
// executor can try EVALSHA before ever sending the script body over the
// wire. The hash is computed by newScriptInfo from the embedded script text
// when an algorithm is constructed (at package init for the reset script),
// never per call.
type scriptInfo struct {
	Script string
	Hash   string
}

func newScriptInfo(script string) scriptInfo {
	sum := sha1.Sum([]byte(script))
	return scriptInfo{
		Script: script,
		Hash:   hex.EncodeToString(sum[:]),
	}
}
