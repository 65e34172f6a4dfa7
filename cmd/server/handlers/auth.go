package handlers

import (
	"errors"
	"net/http"

	"github.com/udayip/portfolio/auth"
	"github.com/udayip/portfolio/logger"
	"github.com/udayip/portfolio/session"
)

// adminSubject names the single admin identity sessions are issued to.
const adminSubject = "admin"

// AuthHandler checks the admin password and, when sessions are enabled,
// issues admin sessions.
type AuthHandler struct {
	checker  *auth.Checker
	sessions *session.Manager
	cookie   *SessionCookie
	logger   logger.Logger
}

// NewAuthHandler creates a new authentication handler. sessions and cookie
// may be nil, in which case only the password check is performed.
func NewAuthHandler(checker *auth.Checker, sessions *session.Manager, cookie *SessionCookie, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		checker:  checker,
		sessions: sessions,
		cookie:   cookie,
		logger:   log,
	}
}

// LoginRequest is the body of POST /auth.
type LoginRequest struct {
	Password *string `json:"password"`
}

// LoginResponse reports the check result. Token is set only when a session was issued.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
}

// Login verifies the submitted password. A wrong password is still a 200.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == nil {
		respondError(w, http.StatusBadRequest, "Password is required")
		return
	}

	ok, err := h.checker.Check(*req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrNotConfigured) {
			h.logger.Error(r.Context(), "admin password is not configured", nil)
			respondError(w, http.StatusInternalServerError, "Server configuration error")
			return
		}
		h.logger.Error(r.Context(), "failed to check password", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !ok {
		h.logger.Warn(r.Context(), "invalid password attempt", map[string]interface{}{
			"remote_addr": r.RemoteAddr,
		})
		respondSuccess(w, false)
		return
	}

	if h.sessions == nil {
		respondSuccess(w, true)
		return
	}

	sess, err := h.sessions.Create(r.Context(), adminSubject)
	if err != nil {
		h.logger.Error(r.Context(), "failed to create session", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	if err := h.cookie.Set(w, sess.ID.String()); err != nil {
		h.logger.Error(r.Context(), "failed to encode session cookie", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{Success: true, Token: sess.ID.String()})
}

// Logout ends the caller's session, if any.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		if id, err := h.cookie.SessionID(r); err == nil {
			h.sessions.Delete(r.Context(), id)
		}
		h.cookie.Clear(w)
	}

	respondSuccess(w, true)
}
