package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func independentHMAC(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return "sha256=" + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestChallengeResponse(t *testing.T) {
	t.Run("success - matches independent HMAC", func(t *testing.T) {
		got, err := ChallengeResponse("abc123", "s3cr3t")
		require.NoError(t, err)
		assert.Equal(t, independentHMAC("s3cr3t", "abc123"), got)
		assert.True(t, strings.HasPrefix(got, Prefix))
	})

	t.Run("success - deterministic", func(t *testing.T) {
		first, err1 := ChallengeResponse("nonce", "secret")
		second, err2 := ChallengeResponse("nonce", "secret")
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first, second)
	})

	t.Run("success - different secrets produce different responses", func(t *testing.T) {
		first, err1 := ChallengeResponse("nonce", "secret-a")
		second, err2 := ChallengeResponse("nonce", "secret-b")
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, first, second)
	})

	t.Run("error - missing secret", func(t *testing.T) {
		_, err := ChallengeResponse("nonce", "")
		assert.ErrorIs(t, err, ErrMissingSecret)
	})
}

func TestVerify(t *testing.T) {
	payload := []byte(`{"for_user_id":"123","tweet_create_events":[{"id_str":"1"}]}`)
	secret := "consumer-secret"

	t.Run("valid signature", func(t *testing.T) {
		res := Verify(payload, Sign(secret, payload), secret)
		assert.True(t, res.Present)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Reason)
	})

	t.Run("missing header is accepted but unverified", func(t *testing.T) {
		res := Verify(payload, "", secret)
		assert.False(t, res.Present)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Reason, "missing")
	})

	t.Run("tampered payload", func(t *testing.T) {
		sig := Sign(secret, payload)
		res := Verify([]byte(`{"for_user_id":"999"}`), sig, secret)
		assert.True(t, res.Present)
		assert.False(t, res.Valid)
		assert.Equal(t, "signature mismatch", res.Reason)
	})

	t.Run("wrong secret", func(t *testing.T) {
		res := Verify(payload, Sign("other", payload), secret)
		assert.False(t, res.Valid)
	})

	t.Run("unsupported prefix", func(t *testing.T) {
		res := Verify(payload, "sha1=abc", secret)
		assert.True(t, res.Present)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Reason, "unsupported")
	})

	t.Run("invalid base64", func(t *testing.T) {
		res := Verify(payload, Prefix+"not-base64!!!", secret)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Reason, "decoding signature")
	})

	t.Run("no secret configured", func(t *testing.T) {
		res := Verify(payload, Sign(secret, payload), "")
		assert.True(t, res.Present)
		assert.False(t, res.Valid)
		assert.Equal(t, ErrMissingSecret.Error(), res.Reason)
	})
}
