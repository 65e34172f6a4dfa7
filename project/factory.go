package project

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/udayip/portfolio/github"
	"github.com/udayip/portfolio/logger"
	"github.com/udayip/portfolio/storage"
	"gorm.io/gorm"
)

// Store variants selectable at startup.
const (
	TypeMemory = "memory"
	TypeFile   = "file"
	TypeS3     = "s3"
	TypeGitHub = "github"
	TypeSQL    = "sql"
)

// Options selects and configures a Store variant.
type Options struct {
	Type   string
	File   FileOptions
	S3     S3Options
	GitHub GitHubOptions

	// DB is required for TypeSQL.
	DB *gorm.DB
}

// FileOptions configures the local JSON document store.
type FileOptions struct {
	Path  string // e.g. package.json
	Field string // e.g. projects
}

// S3Options configures the S3 object store.
type S3Options struct {
	Bucket   string
	Region   string
	Endpoint string
	Key      string
	Field    string
}

// GitHubOptions configures the GitHub repository file store.
type GitHubOptions struct {
	Token      string
	Repository string
	Branch     string
	Path       string
	BaseURL    string
	Timeout    time.Duration
}

// NewStore builds the configured variant.
func NewStore(ctx context.Context, opts Options, log logger.Logger) (Store, error) {
	switch strings.ToLower(opts.Type) {
	case "", TypeMemory:
		return NewMemoryStore(DefaultProjects(), log), nil

	case TypeFile:
		if opts.File.Path == "" {
			return nil, fmt.Errorf("file store: path is required")
		}
		blobs, err := storage.NewLocalStorage(filepath.Dir(opts.File.Path))
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		return NewObjectStore(TypeFile, blobs, filepath.Base(opts.File.Path), opts.File.Field, log)

	case TypeS3:
		blobs, err := storage.NewS3Storage(ctx, opts.S3.Bucket, opts.S3.Region, opts.S3.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("s3 store: %w", err)
		}
		return NewObjectStore(TypeS3, blobs, opts.S3.Key, opts.S3.Field, log)

	case TypeGitHub:
		if opts.GitHub.Path == "" {
			return nil, fmt.Errorf("github store: path is required")
		}
		if opts.GitHub.Token == "" {
			log.Warn(ctx, "github token not configured; reads return an empty collection and writes fail", map[string]interface{}{
				"repository": opts.GitHub.Repository,
			})
			return NewGitHubStore(nil, opts.GitHub.Path, log), nil
		}
		client, err := github.NewClient(github.Config{
			Token:      opts.GitHub.Token,
			Repository: opts.GitHub.Repository,
			Branch:     opts.GitHub.Branch,
			BaseURL:    opts.GitHub.BaseURL,
			Timeout:    opts.GitHub.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("github store: %w", err)
		}
		return NewGitHubStore(client, opts.GitHub.Path, log), nil

	case TypeSQL:
		if opts.DB == nil {
			return nil, fmt.Errorf("sql store: database connection is required")
		}
		return NewSQLStore(opts.DB, log), nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", opts.Type)
	}
}
