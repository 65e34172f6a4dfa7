// Package auth implements the shared-secret admin credential check.
package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrNotConfigured is returned when no admin secret is configured.
// The check fails closed: no submitted password can succeed.
var ErrNotConfigured = errors.New("admin password is not configured")

// Checker compares submitted passwords against the configured admin secret.
type Checker struct {
	secret string
	hash   []byte
}

// NewChecker creates a checker for the given plaintext secret and optional
// bcrypt hash. Surrounding quote characters are stripped from the secret.
// When hash is non-empty it takes precedence over secret.
func NewChecker(secret, hash string) *Checker {
	c := &Checker{secret: StripQuotes(secret)}
	if h := StripQuotes(hash); h != "" {
		c.hash = []byte(h)
	}
	return c
}

// Configured reports whether a secret or hash is available.
func (c *Checker) Configured() bool {
	return c.secret != "" || len(c.hash) > 0
}

// Check reports whether submitted matches the configured secret.
func (c *Checker) Check(submitted string) (bool, error) {
	if !c.Configured() {
		return false, ErrNotConfigured
	}

	if len(c.hash) > 0 {
		err := bcrypt.CompareHashAndPassword(c.hash, []byte(submitted))
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(submitted), []byte(c.secret)) == 1, nil
}

// StripQuotes removes a single leading and a single trailing quote character
// (either ' or "). The two ends are handled independently.
func StripQuotes(s string) string {
	if len(s) > 0 && isQuote(s[0]) {
		s = s[1:]
	}
	if len(s) > 0 && isQuote(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}

func isQuote(b byte) bool {
	return b == '"' || b == '\''
}
