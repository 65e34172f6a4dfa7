package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/udayip/portfolio/logger"
	"github.com/udayip/portfolio/project"
)

// maxProjectsBody bounds PUT payloads.
const maxProjectsBody = 1 << 20

// ProjectHandler serves the project collection.
type ProjectHandler struct {
	store  project.Store
	logger logger.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(store project.Store, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		store:  store,
		logger: log,
	}
}

// List returns the whole collection.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "failed to get projects", map[string]interface{}{
			"store": h.store.Name(),
			"error": err.Error(),
		})
		respondErrorDetails(w, http.StatusInternalServerError, "Failed to read projects", err)
		return
	}

	respondJSON(w, http.StatusOK, projects)
}

// Replace swaps the whole collection for the request body.
func (h *ProjectHandler) Replace(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProjectsBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	projects, err := project.DecodeCollection(body)
	if err != nil {
		h.logger.Warn(r.Context(), "rejected projects payload", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusBadRequest, "Projects must be an array")
		return
	}

	if err := h.store.Put(r.Context(), projects); err != nil {
		h.logger.Error(r.Context(), "failed to save projects", map[string]interface{}{
			"store": h.store.Name(),
			"count": len(projects),
			"error": err.Error(),
		})
		respondErrorDetails(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	respondSuccess(w, true)
}
