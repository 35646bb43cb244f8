package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keySchema is mixed into every hashed key. Bump it when renderer output
// changes so stale artifacts stop matching.
const keySchema = 1

// hashKey returns "prefix:<sha256>" over the JSON encoding of v.
func hashKey(prefix string, v any) string {
	data, _ := json.Marshal(struct {
		Schema int `json:"schema"`
		V      any `json:"v"`
	}{keySchema, v})
	hash := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(hash[:])
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
