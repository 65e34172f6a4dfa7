package handlers

import (
	"net/http"

	"github.com/udayip/portfolio/logger"
	"github.com/udayip/portfolio/session"
)

// AdminGate requires a live admin session. With sessions disabled it passes
// every request through.
type AdminGate struct {
	sessions *session.Manager
	cookie   *SessionCookie
	logger   logger.Logger
}

// NewAdminGate creates the gate. A nil manager disables it.
func NewAdminGate(sessions *session.Manager, cookie *SessionCookie, log logger.Logger) *AdminGate {
	return &AdminGate{
		sessions: sessions,
		cookie:   cookie,
		logger:   log,
	}
}

// Handler wraps next with the session check.
func (g *AdminGate) Handler(next http.Handler) http.Handler {
	if g.sessions == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := g.cookie.SessionID(r)
		if err != nil {
			g.logger.Warn(r.Context(), "missing admin session", map[string]interface{}{
				"path":  r.URL.Path,
				"error": err.Error(),
			})
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		if _, err := g.sessions.Get(id); err != nil {
			g.logger.Warn(r.Context(), "invalid or expired session", map[string]interface{}{
				"path":  r.URL.Path,
				"error": err.Error(),
			})
			respondError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		next.ServeHTTP(w, r)
	})
}
