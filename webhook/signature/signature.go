package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
)

const (
	// Prefix is the algorithm tag the provider puts in front of every digest
	Prefix = "sha256="

	// Header carries the provider's signature of an event payload
	Header = "X-Twitter-Webhooks-Signature"
)

// ErrMissingSecret is returned when no signing secret is configured
var ErrMissingSecret = errors.New("signing secret is not configured")

// Sign returns "sha256=" + base64(HMAC-SHA256(secret, message))
func Sign(secret string, message []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return Prefix + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ChallengeResponse answers the provider's CRC challenge for nonce
func ChallengeResponse(nonce, secret string) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	return Sign(secret, []byte(nonce)), nil
}

// Result records the outcome of a payload verification
type Result struct {
	Present bool
	Valid   bool
	Reason  string
}

// Verify checks the signature header against payload using constant-time comparison.
// It never fails: a missing or bad signature only marks the payload as untrusted.
func Verify(payload []byte, header string, secret string) Result {
	header = strings.TrimSpace(header)
	if header == "" {
		return Result{Reason: "signature header missing"}
	}
	if secret == "" {
		return Result{Present: true, Reason: ErrMissingSecret.Error()}
	}
	if !strings.HasPrefix(header, Prefix) {
		return Result{Present: true, Reason: "unsupported signature algorithm"}
	}

	expected, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, Prefix))
	if err != nil {
		return Result{Present: true, Reason: "decoding signature: " + err.Error()}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	calculated := mac.Sum(nil)

	if subtle.ConstantTimeCompare(expected, calculated) != 1 {
		return Result{Present: true, Reason: "signature mismatch"}
	}
	return Result{Present: true, Valid: true}
}
