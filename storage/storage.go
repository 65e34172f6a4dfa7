package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileNotFound is returned when a requested object does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidPath is returned when a path is invalid or contains path traversal.
	ErrInvalidPath = errors.New("invalid path")
)

// BlobStorage stores whole objects addressed by a relative path.
type BlobStorage interface {
	// Read returns the full content stored at path, or ErrFileNotFound.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write replaces the content at path. Readers never observe a partial write.
	Write(ctx context.Context, path string, data []byte) error

	// Exists checks if data exists at the specified path.
	Exists(ctx context.Context, path string) (bool, error)

	// Describe returns a human-readable location for logging.
	Describe(path string) string
}

// Config selects and configures a BlobStorage backend.
type Config struct {
	Type     string // "local" or "s3"
	BaseDir  string
	Bucket   string
	Region   string
	Endpoint string // optional S3-compatible endpoint
}

// NewBlobStorage creates a BlobStorage implementation based on configuration.
func NewBlobStorage(ctx context.Context, cfg Config) (BlobStorage, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "local":
		return NewLocalStorage(cfg.BaseDir)

	case "s3":
		s3Storage, err := NewS3Storage(ctx, cfg.Bucket, cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return s3Storage, nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
