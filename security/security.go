package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// ErrInvalidPinFormat is returned for anything that is not exactly four digits
var ErrInvalidPinFormat = errors.New("pin must be exactly 4 digits")

// ValidPinFormat reports whether pin is exactly four ASCII digits
func ValidPinFormat(pin string) bool {
	return pinPattern.MatchString(pin)
}

// PinMatches compares a submitted PIN to the configured one in constant time
func PinMatches(submitted, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(expected)) == 1
}

// HashPin returns a bcrypt hash suitable for ADMIN_PIN_HASH
func HashPin(pin string) (string, error) {
	if !ValidPinFormat(pin) {
		return "", ErrInvalidPinFormat
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PinMatchesHash checks a submitted PIN against a bcrypt hash
func PinMatchesHash(submitted, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(submitted)) == nil
}

// GenerateSecret returns n random bytes, URL-safe base64 encoded
func GenerateSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// SanitizeHeaders removes sensitive headers before logging a request
func SanitizeHeaders(headers http.Header) http.Header {
	clean := headers.Clone()
	for _, header := range []string{"Authorization", "Cookie", "Set-Cookie", "X-Admin-Pin"} {
		clean.Del(header)
	}
	return clean
}
