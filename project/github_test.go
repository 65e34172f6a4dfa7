package project

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udayip/portfolio/github"
	"github.com/udayip/portfolio/logger"
	"github.com/udayip/portfolio/testutil"
)

const projectsPath = "data/projects.json"

func setupGitHubStore(t *testing.T) (*GitHubStore, *testutil.FakeContents, *logger.TestLogger) {
	t.Helper()
	fake := testutil.NewFakeContents(t, "owner/repo")
	client, err := github.NewClient(github.Config{
		Token:      fake.Token,
		Repository: "owner/repo",
		BaseURL:    fake.URL(),
	})
	require.NoError(t, err)

	log := logger.NewTestLogger()
	return NewGitHubStore(client, projectsPath, log), fake, log
}

func TestGitHubStore_GetMissingFile(t *testing.T) {
	store, _, log := setupGitHubStore(t)

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, log.Entries(), "a missing file is not worth a warning")
}

func TestGitHubStore_GetSoftFailures(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(fake *testutil.FakeContents)
		wantLog string
	}{
		{
			name:    "server error",
			prepare: func(fake *testutil.FakeContents) { fake.FailNext(http.MethodGet, http.StatusInternalServerError) },
			wantLog: "failed to read projects, serving defaults",
		},
		{
			name:    "unauthorized",
			prepare: func(fake *testutil.FakeContents) { fake.FailNext(http.MethodGet, http.StatusUnauthorized) },
			wantLog: "failed to read projects, serving defaults",
		},
		{
			name:    "content is not base64",
			prepare: func(fake *testutil.FakeContents) { fake.SetRawContent(projectsPath, "!!not base64!!") },
			wantLog: "failed to read projects, serving defaults",
		},
		{
			name:    "content is not json",
			prepare: func(fake *testutil.FakeContents) { fake.SetFile(projectsPath, []byte("{oops")) },
			wantLog: "remote projects file is corrupt, serving defaults",
		},
		{
			name:    "content is an object",
			prepare: func(fake *testutil.FakeContents) { fake.SetFile(projectsPath, []byte(`{"projects":[]}`)) },
			wantLog: "remote projects file is corrupt, serving defaults",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, fake, log := setupGitHubStore(t)
			tt.prepare(fake)

			got, err := store.Get(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []Project{}, got)
			assert.True(t, log.HasEntry("warn", tt.wantLog))
		})
	}
}

func TestGitHubStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, fake, _ := setupGitHubStore(t)

	require.NoError(t, store.Put(ctx, sampleProjects()))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleProjects(), got)

	content, _, ok := fake.File(projectsPath)
	require.True(t, ok)
	expected, err := EncodeCollection(sampleProjects())
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(content))
}

func TestGitHubStore_PutCreatesWithoutSHA(t *testing.T) {
	store, fake, _ := setupGitHubStore(t)
	store.now = func() time.Time { return time.Date(2024, 3, 5, 7, 8, 9, 123456789, time.FixedZone("X", 3600)) }

	require.NoError(t, store.Put(context.Background(), []Project{}))

	puts := fake.RequestsByMethod(http.MethodPut)
	require.Len(t, puts, 1)
	assert.Equal(t, "", puts[0].SHA)
	assert.Equal(t, "Update projects (2024-03-05T06:08:09.123Z)", puts[0].Message)

	content, _, ok := fake.File(projectsPath)
	require.True(t, ok)
	assert.Equal(t, "[]", string(content))
}

func TestGitHubStore_SequentialPutsUseFreshSHA(t *testing.T) {
	ctx := context.Background()
	store, fake, _ := setupGitHubStore(t)
	initial := fake.SetFile(projectsPath, []byte("[]"))

	first := []Project{{ID: "1", Name: "A", URL: "http://a"}}
	require.NoError(t, store.Put(ctx, first))
	_, afterFirst, _ := fake.File(projectsPath)

	second := append(Clone(first), Project{ID: "2", Name: "B", URL: "http://b"})
	require.NoError(t, store.Put(ctx, second))

	puts := fake.RequestsByMethod(http.MethodPut)
	require.Len(t, puts, 2)
	assert.Equal(t, initial, puts[0].SHA)
	assert.Equal(t, afterFirst, puts[1].SHA)
	assert.NotEqual(t, puts[0].SHA, puts[1].SHA)

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestGitHubStore_SamePayloadTwice(t *testing.T) {
	tests := []struct {
		name     string
		existing bool
	}{
		{name: "file created by first put"},
		{name: "file already present", existing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, fake, _ := setupGitHubStore(t)
			var initial string
			if tt.existing {
				initial = fake.SetFile(projectsPath, []byte("[]"))
			}

			payload := sampleProjects()
			require.NoError(t, store.Put(ctx, payload))
			_, afterFirst, ok := fake.File(projectsPath)
			require.True(t, ok)

			require.NoError(t, store.Put(ctx, payload))
			_, afterSecond, _ := fake.File(projectsPath)

			puts := fake.RequestsByMethod(http.MethodPut)
			require.Len(t, puts, 2)
			assert.Equal(t, initial, puts[0].SHA)
			assert.Equal(t, afterFirst, puts[1].SHA, "second write carries the version left by the first")
			assert.NotEqual(t, afterFirst, afterSecond)

			got, err := store.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestGitHubStore_PutRejectedOnce(t *testing.T) {
	store, fake, log := setupGitHubStore(t)
	fake.SetFile(projectsPath, []byte("[]"))
	fake.FailNext(http.MethodPut, http.StatusForbidden)

	err := store.Put(context.Background(), sampleProjects())
	require.Error(t, err)

	var apiErr *github.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Len(t, fake.RequestsByMethod(http.MethodPut), 1, "no retry")
	assert.True(t, log.HasEntry("error", "failed to save projects"))

	content, _, _ := fake.File(projectsPath)
	assert.Equal(t, "[]", string(content))
}

func TestGitHubStore_SHAFetchFailureWritesWithoutSHA(t *testing.T) {
	store, fake, _ := setupGitHubStore(t)
	fake.SetFile(projectsPath, []byte("[]"))
	fake.FailNext(http.MethodGet, http.StatusBadGateway)

	err := store.Put(context.Background(), sampleProjects())

	// the file exists, so an unconditional write is refused by the remote
	assert.ErrorIs(t, err, github.ErrConflict)
	puts := fake.RequestsByMethod(http.MethodPut)
	require.Len(t, puts, 1)
	assert.Equal(t, "", puts[0].SHA)
}

// racingContents lets another writer update the file between the SHA
// fetch and the PUT.
type racingContents struct {
	ContentsAPI
	fake *testutil.FakeContents
}

func (r *racingContents) GetFile(ctx context.Context, path string) (*github.File, error) {
	file, err := r.ContentsAPI.GetFile(ctx, path)
	r.fake.SetFile(path, []byte(`[{"id":"other","name":"Other writer","url":"http://o","description":""}]`))
	return file, err
}

func TestGitHubStore_ConcurrentRemoteWriteIsRejected(t *testing.T) {
	fake := testutil.NewFakeContents(t, "owner/repo")
	fake.SetFile(projectsPath, []byte("[]"))
	client, err := github.NewClient(github.Config{Token: fake.Token, Repository: "owner/repo", BaseURL: fake.URL()})
	require.NoError(t, err)

	store := NewGitHubStore(&racingContents{ContentsAPI: client, fake: fake}, projectsPath, logger.NewTestLogger())

	err = store.Put(context.Background(), sampleProjects())
	assert.ErrorIs(t, err, github.ErrConflict)

	content, _, _ := fake.File(projectsPath)
	assert.Contains(t, string(content), "Other writer", "the other writer's version survives")
}

func TestGitHubStore_NotConfigured(t *testing.T) {
	store := NewGitHubStore(nil, projectsPath, logger.NewTestLogger())

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	err = store.Put(context.Background(), sampleProjects())
	assert.ErrorIs(t, err, ErrRemoteNotConfigured)
}

func TestGitHubStore_Branch(t *testing.T) {
	fake := testutil.NewFakeContents(t, "owner/repo")
	client, err := github.NewClient(github.Config{
		Token:      fake.Token,
		Repository: "owner/repo",
		Branch:     "content",
		BaseURL:    fake.URL(),
	})
	require.NoError(t, err)
	store := NewGitHubStore(client, projectsPath, logger.NewTestLogger())

	require.NoError(t, store.Put(context.Background(), []Project{}))

	for _, req := range fake.Requests() {
		switch req.Method {
		case http.MethodGet:
			assert.Equal(t, "ref=content", req.Query)
		case http.MethodPut:
			assert.Equal(t, "content", req.Branch)
		}
	}
}
