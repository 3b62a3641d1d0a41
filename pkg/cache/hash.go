package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	return fmt.Sprintf("%s:%s", prefix, HashJSON(parts...))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashJSON hashes the JSON encoding of values. Map keys are encoded in
// sorted order, so equal values always hash equally.
func HashJSON(values ...any) string {
	data, err := json.Marshal(values)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", values))
	}
	return Hash(data)
}
