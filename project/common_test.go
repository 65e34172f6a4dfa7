package project

import (
	"testing"

	"github.com/udayip/portfolio/logger"
	"github.com/udayip/portfolio/testutil"
)

// setupSQLStore creates an in-memory SQLite database and SQL store for testing.
func setupSQLStore(t *testing.T) *SQLStore {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &record{})
	return NewSQLStore(db, logger.NewTestLogger())
}

// sampleProjects returns a small collection with characters that need care
// in JSON and base64 round trips.
func sampleProjects() []Project {
	return []Project{
		{ID: "1700000000000", Name: "Portfolio", URL: "https://example.com", Description: "This site"},
		{ID: "1700000000001", Name: "Café <Tools> & more", URL: "https://example.com/?a=1&b=2", Description: "Ünïcödé ✓ \"quoted\"\nmultiline"},
		{ID: "1700000000002", Name: "Empty description", URL: "http://a"},
	}
}
