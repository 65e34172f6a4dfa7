package project

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udayip/portfolio/logger"
	"github.com/udayip/portfolio/testutil"
)

func TestSQLStore_EmptyTable(t *testing.T) {
	store := setupSQLStore(t)

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLStore_PutKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := setupSQLStore(t)

	reversed := sampleProjects()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}

	require.NoError(t, store.Put(ctx, reversed))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(reversed, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLStore_PutReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := setupSQLStore(t)

	require.NoError(t, store.Put(ctx, sampleProjects()))
	require.NoError(t, store.Put(ctx, DefaultProjects()))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultProjects(), got)

	require.NoError(t, store.Put(ctx, []Project{}))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLStore_DuplicateIDsAreKept(t *testing.T) {
	ctx := context.Background()
	store := setupSQLStore(t)

	dupes := []Project{{ID: "1", Name: "A"}, {ID: "1", Name: "B"}}
	require.NoError(t, store.Put(ctx, dupes))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, dupes, got)
}

func TestSQLStore_GetOrdersByPosition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &record{})
	testutil.CreateFixtures(t, db,
		&record{ProjectID: "c", Name: "Third", Position: 2},
		&record{ProjectID: "a", Name: "First", Position: 0},
		&record{ProjectID: "b", Name: "Second", Position: 1},
	)
	store := NewSQLStore(db, logger.NewTestLogger())

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
}
