package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// EmptyBodyHash is the SHA256 of an empty request body.
const EmptyBodyHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// StringToSign is the canonical form a daemon signs:
// METHOD\nPATH\nTIMESTAMP\nSHA256(body)
func StringToSign(method, path string, timestamp int64, body []byte) string {
	return fmt.Sprintf("%s\n%s\n%d\n%s", method, path, timestamp, HashBody(body))
}

func HashBody(body []byte) string {
	if len(body) == 0 {
		return EmptyBodyHash
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// SignRequest returns the hex HMAC-SHA256 of the request's string to sign.
func SignRequest(secret, method, path string, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(StringToSign(method, path, timestamp, body)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time.
func VerifySignature(secret, method, path string, timestamp int64, body []byte, signature string) bool {
	expected := SignRequest(secret, method, path, timestamp, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WithinTolerance reports whether a unix timestamp is no further than
// tolerance from now in either direction.
func WithinTolerance(timestamp int64, now time.Time, tolerance time.Duration) bool {
	diff := now.Unix() - timestamp
	if diff < 0 {
		diff = -diff
	}
	return diff <= int64(tolerance/time.Second)
}
