package lemonsqueezy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"meta":{"event_name":"subscription_created"}}`)
	secret := "whsec_test"

	assert.True(t, VerifySignature(payload, Sign(payload, secret), secret))
	assert.False(t, VerifySignature(payload, Sign(payload, "other_secret"), secret))
	assert.False(t, VerifySignature(payload, "", secret))
	assert.False(t, VerifySignature(payload, "not-hex-at-all", secret))

	tampered := append([]byte{}, payload...)
	tampered[0] = '['
	assert.False(t, VerifySignature(tampered, Sign(payload, secret), secret))
}
