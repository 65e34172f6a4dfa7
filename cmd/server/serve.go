package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
	"github.com/udayip/portfolio/auth"
	"github.com/udayip/portfolio/cmd/server/handlers"
	"github.com/udayip/portfolio/database"
	"github.com/udayip/portfolio/logger"
	"github.com/udayip/portfolio/project"
	"github.com/udayip/portfolio/session"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogrusLogger(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "starting server", map[string]interface{}{
		"version": Version,
		"commit":  Commit,
		"date":    BuildDate,
	})

	checker := auth.NewChecker(cfg.Auth.Password, cfg.Auth.PasswordHash)
	if !checker.Configured() {
		log.Warn(ctx, "admin password is not configured; logins will fail with a configuration error", nil)
	}

	var db *gorm.DB
	if usesDatabase(cfg.Store) {
		db, err = openDatabase(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		defer sqlDB.Close()
	}

	store, err := project.NewStore(ctx, storeOptions(cfg.Store, db), log)
	if err != nil {
		return fmt.Errorf("failed to create project store: %w", err)
	}
	log.Info(ctx, "project store ready", map[string]interface{}{
		"store": store.Name(),
	})

	deps := routerDeps{
		store:   store,
		checker: checker,
		logger:  log,
	}

	if cfg.Auth.Sessions.Enabled {
		manager, cookie, err := newSessions(ctx, cfg.Auth.Sessions, log)
		if err != nil {
			return err
		}
		manager.StartCleanup(cfg.Auth.Sessions.CleanupInterval)
		defer manager.StopCleanup()

		deps.sessions = manager
		deps.cookie = cookie
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      newRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(ctx, "server listening", map[string]interface{}{
			"address": addr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down server", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info(context.Background(), "server stopped", nil)
	return nil
}

// usesDatabase reports whether the configured store needs a SQL connection.
// Store types are case-insensitive, as in project.NewStore.
func usesDatabase(cfg StoreConfig) bool {
	return strings.EqualFold(cfg.Type, project.TypeSQL)
}

func storeOptions(cfg StoreConfig, db *gorm.DB) project.Options {
	return project.Options{
		Type: cfg.Type,
		File: project.FileOptions{
			Path:  cfg.File.Path,
			Field: cfg.File.Field,
		},
		S3: project.S3Options{
			Bucket:   cfg.S3.Bucket,
			Region:   cfg.S3.Region,
			Endpoint: cfg.S3.Endpoint,
			Key:      cfg.S3.Key,
			Field:    cfg.S3.Field,
		},
		GitHub: project.GitHubOptions{
			Token:      cfg.GitHub.Token,
			Repository: cfg.GitHub.Repository,
			Branch:     cfg.GitHub.Branch,
			Path:       cfg.GitHub.Path,
			BaseURL:    cfg.GitHub.BaseURL,
			Timeout:    cfg.GitHub.Timeout,
		},
		DB: db,
	}
}

func databaseConfig(cfg DatabaseConfig) database.Config {
	return database.Config{
		Driver:       cfg.Driver,
		Host:         cfg.Host,
		Port:         cfg.Port,
		User:         cfg.User,
		Password:     cfg.Password,
		Database:     cfg.Database,
		Path:         cfg.Path,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	}
}

func openDatabase(ctx context.Context, cfg DatabaseConfig, log logger.Logger) (*gorm.DB, error) {
	db, err := database.Connect(databaseConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info(ctx, "database connected", map[string]interface{}{
		"driver":   cfg.Driver,
		"host":     cfg.Host,
		"database": cfg.Database,
	})

	if !cfg.AutoMigrate {
		return db, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := database.RunMigrations(sqlDB, cfg.Driver); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func newSessions(ctx context.Context, cfg SessionConfig, log logger.Logger) (*session.Manager, *handlers.SessionCookie, error) {
	if cfg.Duration <= 0 {
		return nil, nil, fmt.Errorf("session duration must be positive, got %s", cfg.Duration)
	}
	if cfg.CleanupInterval <= 0 {
		return nil, nil, fmt.Errorf("session cleanup interval must be positive, got %s", cfg.CleanupInterval)
	}

	hashKey := cfg.HashKey
	if hashKey == "" {
		hashKey = string(securecookie.GenerateRandomKey(32))
		log.Warn(ctx, "no session hash key configured; sessions will not survive a restart", nil)
	}
	switch len(cfg.BlockKey) {
	case 0, 16, 24, 32:
	default:
		return nil, nil, fmt.Errorf("session block key must be 16, 24 or 32 bytes, got %d", len(cfg.BlockKey))
	}

	manager := session.NewManager(cfg.Duration, log)
	cookie := handlers.NewSessionCookie(cfg.CookieName, hashKey, cfg.BlockKey, cfg.Secure, cfg.Duration)

	log.Info(ctx, "admin sessions enabled", map[string]interface{}{
		"duration": cfg.Duration.String(),
	})
	return manager, cookie, nil
}
