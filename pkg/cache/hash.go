package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns "prefix:<sha256>" over the JSON encoding of parts. Keys
// have a fixed length however many items a request carries.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		// Key options are plain structs of numbers and strings.
		_ = enc.Encode(p)
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. The runner hashes the serialized
// keyline layout and chains it into placement keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
