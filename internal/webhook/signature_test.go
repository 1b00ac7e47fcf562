package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifier_Valid(t *testing.T) {
	t.Parallel()

	body := []byte(`{"destination":"U0","events":[]}`)
	v := NewVerifier("channel-secret")

	assert.True(t, v.Verify(body, sign("channel-secret", body)))
	assert.Equal(t, sign("channel-secret", body), v.Sign(body))
	assert.False(t, v.Bypassed())
}

func TestVerifier_FlippedBytes(t *testing.T) {
	t.Parallel()

	body := []byte(`{"events":[{"type":"message","replyToken":"abc"}]}`)
	v := NewVerifier("channel-secret")
	sig := v.Sign(body)

	for i := range body {
		tampered := append([]byte(nil), body...)
		tampered[i] ^= 0x01
		assert.False(t, v.Verify(tampered, sig), "body byte %d flipped", i)
	}

	raw, err := base64.StdEncoding.DecodeString(sig)
	assert.NoError(t, err)
	for i := range raw {
		tampered := append([]byte(nil), raw...)
		tampered[i] ^= 0x80
		assert.False(t, v.Verify(body, base64.StdEncoding.EncodeToString(tampered)), "signature byte %d flipped", i)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	t.Parallel()

	body := []byte("payload")
	v := NewVerifier("secret")

	tests := []struct {
		name      string
		signature string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"other secret", sign("other", body)},
		{"truncated", sign("secret", body)[:10]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, v.Verify(body, tt.signature))
		})
	}
}

func TestVerifier_EmptySecretBypasses(t *testing.T) {
	t.Parallel()

	v := NewVerifier("")
	assert.True(t, v.Bypassed())
	for _, sig := range []string{"", "garbage", sign("x", []byte("y"))} {
		assert.True(t, v.Verify([]byte("anything"), sig))
	}
}
