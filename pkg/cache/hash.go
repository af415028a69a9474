package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns kind, a colon and the hex SHA-256 of the JSON encoding of
// parts. Struct fields encode in declaration order, so equal options always
// give equal keys.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		// Key options are plain validated values; encoding does not fail.
		_ = enc.Encode(p)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. Artifacts are keyed by the hash of
// the encoded layout they were rendered from.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
