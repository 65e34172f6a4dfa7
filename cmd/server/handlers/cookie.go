package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
)

// ErrNoSessionCredential is returned when a request carries neither a session
// cookie nor a bearer token.
var ErrNoSessionCredential = errors.New("no session credential")

// SessionCookie signs and reads the admin session cookie.
type SessionCookie struct {
	codec  *securecookie.SecureCookie
	name   string
	secure bool
	maxAge time.Duration
}

// NewSessionCookie creates a cookie codec. hashKey signs the value; a
// non-empty blockKey (16, 24 or 32 bytes) also encrypts it.
func NewSessionCookie(name, hashKey, blockKey string, secure bool, maxAge time.Duration) *SessionCookie {
	var block []byte
	if blockKey != "" {
		block = []byte(blockKey)
	}
	codec := securecookie.New([]byte(hashKey), block)
	codec.MaxAge(int(maxAge.Seconds()))

	return &SessionCookie{
		codec:  codec,
		name:   name,
		secure: secure,
		maxAge: maxAge,
	}
}

// Set writes the cookie holding sessionID.
func (c *SessionCookie) Set(w http.ResponseWriter, sessionID string) error {
	encoded, err := c.codec.Encode(c.name, sessionID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// Clear expires the cookie.
func (c *SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// SessionID returns the session ID presented by r. A bearer token wins over the cookie.
func (c *SessionCookie) SessionID(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), nil
	}

	cookie, err := r.Cookie(c.name)
	if err != nil {
		return "", ErrNoSessionCredential
	}

	var id string
	if err := c.codec.Decode(c.name, cookie.Value, &id); err != nil {
		return "", err
	}
	return id, nil
}
