// Package signature implements the HMAC-SHA256 signing scheme shared
// with the backend: requests arrive signed, callbacks leave signed, and
// both sides sign the exact bytes on the wire.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the lowercase hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether provided is the signature of body under secret.
// The comparison is constant time.
func Verify(secret string, body []byte, provided string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(provided))
}
