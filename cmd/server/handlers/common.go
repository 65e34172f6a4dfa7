package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/udayip/portfolio/logger"
)

// ErrorResponse represents an error response. Details carries the underlying
// failure for server errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is the body of a successful write or a credential check.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondErrorDetails writes an error response that includes the cause.
func respondErrorDetails(w http.ResponseWriter, status int, message string, err error) {
	respondJSON(w, status, ErrorResponse{Error: message, Details: err.Error()})
}

// respondSuccess writes {"success": ok} with status 200.
func respondSuccess(w http.ResponseWriter, ok bool) {
	respondJSON(w, http.StatusOK, SuccessResponse{Success: ok})
}

// parseJSON parses JSON from the request body into the given destination.
func parseJSON(r *http.Request, dest interface{}, log logger.Logger) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		log.Warn(r.Context(), "failed to parse JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}
