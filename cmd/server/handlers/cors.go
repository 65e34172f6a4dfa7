package handlers

import "net/http"

// Method lists advertised to browsers per route group.
const (
	ProjectMethods = "GET, PUT, OPTIONS"
	AuthMethods    = "POST, OPTIONS"
)

// CORS adds the cross-origin headers of one route group.
type CORS struct {
	methods string
}

// NewCORS creates a CORS middleware advertising methods.
func NewCORS(methods string) *CORS {
	return &CORS{methods: methods}
}

// Handler sets the CORS headers before calling next.
func (c *CORS) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Allow-Methods", c.methods)
		next.ServeHTTP(w, r)
	})
}

// AllowAnyOrigin sets Access-Control-Allow-Origin on every response,
// including errors and static files.
func AllowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// Preflight answers OPTIONS with an empty 200.
func Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// MethodNotAllowed answers methods a known route does not support.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
