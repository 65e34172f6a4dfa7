package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/udayip/portfolio/auth"
	"github.com/udayip/portfolio/cmd/server/handlers"
	"github.com/udayip/portfolio/logger"
	"github.com/udayip/portfolio/project"
	"github.com/udayip/portfolio/session"
	"github.com/udayip/portfolio/web"
)

// Every collection path serves the same store. The extra paths keep
// clients written against the serverless deployment working.
var (
	projectPaths = []string{
		"/projects",
		"/projects-github",
		"/.netlify/functions/projects",
		"/.netlify/functions/projects-github",
	}
	authPaths = []string{
		"/auth",
		"/.netlify/functions/auth",
	}
)

// routerDeps holds what the HTTP layer needs. sessions and cookie are nil
// when admin sessions are disabled.
type routerDeps struct {
	store    project.Store
	checker  *auth.Checker
	sessions *session.Manager
	cookie   *handlers.SessionCookie
	logger   logger.Logger
}

func newRouter(d routerDeps) http.Handler {
	router := mux.NewRouter()

	projectCORS := handlers.NewCORS(handlers.ProjectMethods)
	authCORS := handlers.NewCORS(handlers.AuthMethods)
	gate := handlers.NewAdminGate(d.sessions, d.cookie, d.logger)

	projectHandler := handlers.NewProjectHandler(d.store, d.logger)
	authHandler := handlers.NewAuthHandler(d.checker, d.sessions, d.cookie, d.logger)

	for _, path := range projectPaths {
		router.Handle(path, projectCORS.Handler(http.HandlerFunc(handlers.Preflight))).Methods(http.MethodOptions)
		router.Handle(path, projectCORS.Handler(http.HandlerFunc(projectHandler.List))).Methods(http.MethodGet)
		router.Handle(path, projectCORS.Handler(gate.Handler(http.HandlerFunc(projectHandler.Replace)))).Methods(http.MethodPut)
		router.Handle(path, projectCORS.Handler(http.HandlerFunc(handlers.MethodNotAllowed)))
	}

	for _, path := range authPaths {
		router.Handle(path, authCORS.Handler(http.HandlerFunc(handlers.Preflight))).Methods(http.MethodOptions)
		router.Handle(path, authCORS.Handler(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost)
		router.Handle(path, authCORS.Handler(http.HandlerFunc(handlers.MethodNotAllowed)))
	}

	router.Handle("/auth/logout", authCORS.Handler(http.HandlerFunc(handlers.Preflight))).Methods(http.MethodOptions)
	router.Handle("/auth/logout", authCORS.Handler(http.HandlerFunc(authHandler.Logout))).Methods(http.MethodPost)
	router.Handle("/auth/logout", authCORS.Handler(http.HandlerFunc(handlers.MethodNotAllowed)))

	router.HandleFunc("/health", handlers.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/config", handlers.ConfigHandler(handlers.ClientConfig{
		ProjectsEndpoint: "/projects",
		AuthEndpoint:     "/auth",
		Store:            d.store.Name(),
		Sessions:         d.sessions != nil,
	})).Methods(http.MethodGet)

	router.PathPrefix("/").Handler(web.FileServer()).Methods(http.MethodGet, http.MethodHead)

	return handlers.NewRequestLogger(d.logger).Handler(handlers.AllowAnyOrigin(router))
}
