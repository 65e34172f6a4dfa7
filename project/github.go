package project

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/udayip/portfolio/github"
	"github.com/udayip/portfolio/logger"
)

// ContentsAPI is the subset of the GitHub contents client used by GitHubStore.
type ContentsAPI interface {
	GetFile(ctx context.Context, path string) (*github.File, error)
	PutFile(ctx context.Context, path string, input github.PutFileInput) (*github.File, error)
}

// GitHubStore keeps the collection as a JSON file in a GitHub repository.
//
// Reads never fail: a missing, unreadable or corrupt file yields the default
// (empty) collection. Writes re-fetch the file's SHA immediately before the
// single PUT attempt; a rejected write is returned to the caller as-is.
type GitHubStore struct {
	contents ContentsAPI
	path     string
	logger   logger.Logger
	now      func() time.Time

	// serializes fetch-SHA-then-PUT between writers in this process
	mu sync.Mutex
}

// NewGitHubStore creates a store for the file at path. contents may be nil
// when no token is configured; reads then return the default collection and
// writes fail with ErrRemoteNotConfigured.
func NewGitHubStore(contents ContentsAPI, path string, log logger.Logger) *GitHubStore {
	return &GitHubStore{
		contents: contents,
		path:     path,
		logger:   log,
		now:      time.Now,
	}
}

// Name implements Store.
func (s *GitHubStore) Name() string { return "github" }

func (s *GitHubStore) defaults() []Project {
	return []Project{}
}

// Get fetches and decodes the remote file.
func (s *GitHubStore) Get(ctx context.Context) ([]Project, error) {
	if s.contents == nil {
		return s.defaults(), nil
	}

	file, err := s.contents.GetFile(ctx, s.path)
	if err != nil {
		if !errors.Is(err, github.ErrFileNotFound) {
			s.logger.Warn(ctx, "failed to read projects, serving defaults", map[string]interface{}{
				"path":  s.path,
				"error": err.Error(),
			})
		}
		return s.defaults(), nil
	}

	projects, err := DecodeCollection(file.Content)
	if err != nil {
		s.logger.Warn(ctx, "remote projects file is corrupt, serving defaults", map[string]interface{}{
			"path":  s.path,
			"sha":   file.SHA,
			"error": err.Error(),
		})
		return s.defaults(), nil
	}
	return projects, nil
}

// Put writes the collection with a fresh SHA precondition.
func (s *GitHubStore) Put(ctx context.Context, projects []Project) error {
	if s.contents == nil {
		return ErrRemoteNotConfigured
	}

	content, err := EncodeCollection(projects)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sha := s.currentSHA(ctx)

	input := github.PutFileInput{
		Message: fmt.Sprintf("Update projects (%s)", s.now().UTC().Format("2006-01-02T15:04:05.000Z")),
		Content: content,
		SHA:     sha,
	}
	file, err := s.contents.PutFile(ctx, s.path, input)
	if err != nil {
		s.logger.Error(ctx, "failed to save projects", map[string]interface{}{
			"path":  s.path,
			"sha":   sha,
			"error": err.Error(),
		})
		return fmt.Errorf("failed to save projects to %s: %w", s.path, err)
	}

	s.logger.Info(ctx, "projects saved", map[string]interface{}{
		"path":     s.path,
		"count":    len(projects),
		"prev_sha": sha,
		"sha":      file.SHA,
	})
	return nil
}

// currentSHA returns the file's latest SHA, or "" when none is obtainable,
// which makes the PUT a create.
func (s *GitHubStore) currentSHA(ctx context.Context) string {
	file, err := s.contents.GetFile(ctx, s.path)
	if file != nil && file.SHA != "" {
		return file.SHA
	}
	if err != nil && !errors.Is(err, github.ErrFileNotFound) {
		s.logger.Warn(ctx, "could not fetch current sha, writing without one", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
	}
	return ""
}
