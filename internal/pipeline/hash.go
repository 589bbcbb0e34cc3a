package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHashHex returns the hex SHA-256 of data.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
