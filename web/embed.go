// Package web serves the public portfolio page and the admin page, embedded
// into the binary.
package web

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

//go:embed static
var staticFS embed.FS

// contentType returns the MIME type for a file extension.
func contentType(ext string) string {
	switch ext {
	case ".js":
		return "application/javascript"
	case ".css":
		return "text/css; charset=utf-8"
	case ".html":
		return "text/html; charset=utf-8"
	default:
		return mime.TypeByExtension(ext)
	}
}

// Files returns the embedded UI files rooted at the site root.
func Files() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	return sub
}

// FileServer serves the UI. Every response is marked no-cache so that edits
// made through the admin page show up on the next load.
func FileServer() http.Handler {
	fileServer := http.FileServer(http.FS(Files()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := contentType(strings.ToLower(path.Ext(r.URL.Path))); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("Cache-Control", "no-cache")
		fileServer.ServeHTTP(w, r)
	})
}
