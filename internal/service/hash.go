package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSourceText computes the content hash recorded with every
// generation attempt: a hex-encoded SHA-256 digest of the raw source
// text. The hash identifies equal inputs for deduplication and
// analytics; it is not a security mechanism.
func HashSourceText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
