package lemonsqueezy

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks the X-Signature header on a webhook delivery:
// hex(HMAC-SHA256(secret, rawBody)). The compare is constant time.
func VerifySignature(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	digest := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(digest))
}

// Sign returns the hex HMAC-SHA256 of payload; test helper counterpart
// of VerifySignature.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
