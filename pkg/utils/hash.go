package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

func HashString(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}

// MessageKey hashes a chat message so that case and surrounding or repeated
// whitespace do not produce distinct keys.
func MessageKey(message string) string {
	return HashString(strings.Join(strings.Fields(strings.ToLower(message)), " "))
}
