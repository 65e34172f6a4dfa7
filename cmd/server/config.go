package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Store    StoreConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig holds the admin credential and optional session settings.
type AuthConfig struct {
	Password     string
	PasswordHash string
	Sessions     SessionConfig
}

// SessionConfig holds admin session configuration.
type SessionConfig struct {
	Enabled         bool
	CookieName      string
	HashKey         string
	BlockKey        string
	Duration        time.Duration
	CleanupInterval time.Duration
	Secure          bool
}

// StoreConfig selects and configures the project store.
type StoreConfig struct {
	Type   string
	File   FileStoreConfig
	S3     S3StoreConfig
	GitHub GitHubStoreConfig
}

// FileStoreConfig holds local JSON document settings.
type FileStoreConfig struct {
	Path  string
	Field string
}

// S3StoreConfig holds S3 object settings.
type S3StoreConfig struct {
	Bucket   string
	Region   string
	Endpoint string
	Key      string
	Field    string
}

// GitHubStoreConfig holds GitHub repository file settings.
type GitHubStoreConfig struct {
	Token      string
	Repository string
	Branch     string
	Path       string
	BaseURL    string
	Timeout    time.Duration
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	Path         string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Enable environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Deployment variables keep their established names.
	v.BindEnv("server.port", "PORT")
	v.BindEnv("auth.password", "ADMIN_PASSWORD")
	v.BindEnv("auth.password_hash", "ADMIN_PASSWORD_HASH")
	v.BindEnv("store.github.token", "GITHUB_TOKEN")
	v.BindEnv("store.github.repository", "GITHUB_REPO")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "45s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("auth.password", "")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.sessions.enabled", false)
	v.SetDefault("auth.sessions.cookie_name", "portfolio_session")
	v.SetDefault("auth.sessions.hash_key", "")
	v.SetDefault("auth.sessions.block_key", "")
	v.SetDefault("auth.sessions.duration", "12h")
	v.SetDefault("auth.sessions.cleanup_interval", "5m")
	v.SetDefault("auth.sessions.secure", false)

	v.SetDefault("store.type", "memory")
	v.SetDefault("store.file.path", "package.json")
	v.SetDefault("store.file.field", "projects")
	v.SetDefault("store.s3.bucket", "")
	v.SetDefault("store.s3.region", "us-east-1")
	v.SetDefault("store.s3.endpoint", "")
	v.SetDefault("store.s3.key", "projects.json")
	v.SetDefault("store.s3.field", "")
	v.SetDefault("store.github.token", "")
	v.SetDefault("store.github.repository", "")
	v.SetDefault("store.github.branch", "")
	v.SetDefault("store.github.path", "projects.json")
	v.SetDefault("store.github.base_url", "https://api.github.com")
	v.SetDefault("store.github.timeout", "30s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "portfolio")
	v.SetDefault("database.path", "portfolio.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config

	config.Server.Host = v.GetString("server.host")
	config.Server.Port = v.GetInt("server.port")
	config.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	config.Server.WriteTimeout = v.GetDuration("server.write_timeout")
	config.Server.ShutdownTimeout = v.GetDuration("server.shutdown_timeout")

	config.Auth.Password = v.GetString("auth.password")
	config.Auth.PasswordHash = v.GetString("auth.password_hash")
	config.Auth.Sessions.Enabled = v.GetBool("auth.sessions.enabled")
	config.Auth.Sessions.CookieName = v.GetString("auth.sessions.cookie_name")
	config.Auth.Sessions.HashKey = v.GetString("auth.sessions.hash_key")
	config.Auth.Sessions.BlockKey = v.GetString("auth.sessions.block_key")
	config.Auth.Sessions.Duration = v.GetDuration("auth.sessions.duration")
	config.Auth.Sessions.CleanupInterval = v.GetDuration("auth.sessions.cleanup_interval")
	config.Auth.Sessions.Secure = v.GetBool("auth.sessions.secure")

	config.Store.Type = v.GetString("store.type")
	config.Store.File.Path = v.GetString("store.file.path")
	config.Store.File.Field = v.GetString("store.file.field")
	config.Store.S3.Bucket = v.GetString("store.s3.bucket")
	config.Store.S3.Region = v.GetString("store.s3.region")
	config.Store.S3.Endpoint = v.GetString("store.s3.endpoint")
	config.Store.S3.Key = v.GetString("store.s3.key")
	config.Store.S3.Field = v.GetString("store.s3.field")
	config.Store.GitHub.Token = v.GetString("store.github.token")
	config.Store.GitHub.Repository = v.GetString("store.github.repository")
	config.Store.GitHub.Branch = v.GetString("store.github.branch")
	config.Store.GitHub.Path = v.GetString("store.github.path")
	config.Store.GitHub.BaseURL = v.GetString("store.github.base_url")
	config.Store.GitHub.Timeout = v.GetDuration("store.github.timeout")

	config.Database.Driver = v.GetString("database.driver")
	config.Database.Host = v.GetString("database.host")
	config.Database.Port = v.GetInt("database.port")
	config.Database.User = v.GetString("database.user")
	config.Database.Password = v.GetString("database.password")
	config.Database.Database = v.GetString("database.database")
	config.Database.Path = v.GetString("database.path")
	config.Database.MaxOpenConns = v.GetInt("database.max_open_conns")
	config.Database.MaxIdleConns = v.GetInt("database.max_idle_conns")
	config.Database.AutoMigrate = v.GetBool("database.auto_migrate")

	config.Log.Level = v.GetString("log.level")
	config.Log.Format = v.GetString("log.format")

	return &config, nil
}
