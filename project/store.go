package project

import (
	"context"
	"errors"
)

// ErrRemoteNotConfigured is returned by writes to a remote store that has no credentials.
var ErrRemoteNotConfigured = errors.New("remote store credentials are not configured")

// Store persists the ordered project collection. Writes replace the whole
// collection; there is no per-project update.
type Store interface {
	// Get returns the current collection in display order. Never nil on success.
	Get(ctx context.Context) ([]Project, error)

	// Put replaces the stored collection with projects.
	Put(ctx context.Context, projects []Project) error

	// Name identifies the variant for logs and diagnostics.
	Name() string
}
