package project

import (
	"errors"
	"strconv"
	"time"
)

var (
	// ErrProjectNotFound is returned when no project in a collection has the given ID.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidProjectName is returned when a project name is empty.
	ErrInvalidProjectName = errors.New("project name is required")

	// ErrInvalidProjectURL is returned when a project URL is empty.
	ErrInvalidProjectURL = errors.New("project url is required")
)

// Project is a portfolio entry displayed as a card on the public site.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Validate checks the fields an editor must fill in. Stores do not call it:
// any well-formed collection is accepted as-is.
func (p *Project) Validate() error {
	if p.Name == "" {
		return ErrInvalidProjectName
	}
	if p.URL == "" {
		return ErrInvalidProjectURL
	}
	return nil
}

// NewID returns a timestamp-based ID in milliseconds, the same scheme the
// admin UI uses. Uniqueness is the caller's concern.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// DefaultProjects returns the seed collection of the in-memory store.
func DefaultProjects() []Project {
	return []Project{
		{
			ID:          "1",
			Name:        "Sample Project",
			URL:         "https://example.com",
			Description: "A sample project description",
		},
	}
}
