package handlers

import "net/http"

// ClientConfig tells the browser UI where to find the API.
type ClientConfig struct {
	ProjectsEndpoint string `json:"projectsEndpoint"`
	AuthEndpoint     string `json:"authEndpoint"`
	Store            string `json:"store"`
	Sessions         bool   `json:"sessions"`
}

// ConfigHandler serves a fixed ClientConfig.
func ConfigHandler(cfg ClientConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		respondJSON(w, http.StatusOK, cfg)
	}
}
