package githubhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

const signaturePrefix = "sha256="

// VerifySignature checks a GitHub webhook MAC against the shared secret.
// It must run over the exact raw request body; re-serializing a parsed
// payload is not guaranteed to round-trip byte-for-byte. An empty signature
// header is simply invalid, not an error.
func VerifySignature(secret string, signature string, payload []byte) bool {
	if signature == "" {
		return false
	}

	expected := ComputeSignature(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ComputeSignature renders the sha256= prefixed hex HMAC GitHub sends.
func ComputeSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)

	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
