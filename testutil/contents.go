package testutil

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// ContentsRequest is a request recorded by FakeContents.
type ContentsRequest struct {
	Method  string
	Path    string
	Query   string
	SHA     string
	Message string
	Branch  string
}

type fakeFile struct {
	raw string // base64 as served, possibly corrupted on purpose
	sha string
}

// FakeContents emulates the GitHub repository contents API for a single
// repository. Writes enforce the SHA precondition the real API applies.
type FakeContents struct {
	Server *httptest.Server
	Token  string

	owner string
	repo  string

	mu       sync.Mutex
	files    map[string]fakeFile
	requests []ContentsRequest
	failures map[string]int
	counter  int
}

// NewFakeContents starts a fake contents API for repository "owner/repo".
// The server is closed when the test finishes.
func NewFakeContents(t *testing.T, repository string) *FakeContents {
	t.Helper()

	parts := strings.SplitN(repository, "/", 2)
	if len(parts) != 2 {
		t.Fatalf("invalid repository %q", repository)
	}

	f := &FakeContents{
		Token:    "test-token",
		owner:    parts[0],
		repo:     parts[1],
		files:    make(map[string]fakeFile),
		failures: make(map[string]int),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL to configure clients with.
func (f *FakeContents) URL() string {
	return f.Server.URL
}

// SetFile stores content at path and returns its SHA.
func (f *FakeContents) SetFile(path string, content []byte) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	sha := f.nextSHA(content)
	f.files[path] = fakeFile{raw: wrapBase64(content), sha: sha}
	return sha
}

// SetRawContent stores an arbitrary, possibly invalid, base64 payload.
func (f *FakeContents) SetRawContent(path, raw string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	sha := f.nextSHA([]byte(raw))
	f.files[path] = fakeFile{raw: raw, sha: sha}
	return sha
}

// File returns the decoded content and SHA stored at path.
func (f *FakeContents) File(path string) ([]byte, string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[path]
	if !ok {
		return nil, "", false
	}
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.raw, "\n", ""))
	if err != nil {
		return nil, file.sha, true
	}
	return data, file.sha, true
}

// FailNext makes the next request with the given method return status.
func (f *FakeContents) FailNext(method string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = status
}

// Requests returns the requests received so far.
func (f *FakeContents) Requests() []ContentsRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ContentsRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestsByMethod returns the recorded requests with the given method.
func (f *FakeContents) RequestsByMethod(method string) []ContentsRequest {
	var out []ContentsRequest
	for _, r := range f.Requests() {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeContents) serve(w http.ResponseWriter, r *http.Request) {
	prefix := fmt.Sprintf("/repos/%s/%s/contents/", f.owner, f.repo)
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeMessage(w, http.StatusNotFound, "Not Found")
		return
	}
	path := strings.TrimPrefix(r.URL.Path, prefix)

	if r.Header.Get("Authorization") != "Bearer "+f.Token {
		writeMessage(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	rec := ContentsRequest{Method: r.Method, Path: path, Query: r.URL.RawQuery}

	var put struct {
		Message string `json:"message"`
		Content string `json:"content"`
		SHA     string `json:"sha"`
		Branch  string `json:"branch"`
	}
	if r.Method == http.MethodPut {
		if err := json.NewDecoder(r.Body).Decode(&put); err != nil {
			f.requests = append(f.requests, rec)
			writeMessage(w, http.StatusBadRequest, "Problems parsing JSON")
			return
		}
		rec.SHA = put.SHA
		rec.Message = put.Message
		rec.Branch = put.Branch
	}
	f.requests = append(f.requests, rec)

	if status, ok := f.failures[r.Method]; ok {
		delete(f.failures, r.Method)
		writeMessage(w, status, "injected failure")
		return
	}

	switch r.Method {
	case http.MethodGet:
		file, ok := f.files[path]
		if !ok {
			writeMessage(w, http.StatusNotFound, "Not Found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"type":     "file",
			"path":     path,
			"sha":      file.sha,
			"encoding": "base64",
			"content":  file.raw,
		})

	case http.MethodPut:
		existing, exists := f.files[path]
		switch {
		case exists && put.SHA == "":
			writeMessage(w, http.StatusUnprocessableEntity, "Invalid request.\n\n\"sha\" wasn't supplied.")
			return
		case exists && put.SHA != existing.sha:
			writeMessage(w, http.StatusConflict, fmt.Sprintf("%s does not match %s", path, put.SHA))
			return
		case !exists && put.SHA != "":
			writeMessage(w, http.StatusUnprocessableEntity, "sha supplied for a file that does not exist")
			return
		}

		content, err := base64.StdEncoding.DecodeString(put.Content)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "content is not valid Base64")
			return
		}
		sha := f.nextSHA(content)
		f.files[path] = fakeFile{raw: wrapBase64(content), sha: sha}

		status := http.StatusOK
		if !exists {
			status = http.StatusCreated
		}
		writeJSON(w, status, map[string]interface{}{
			"content": map[string]interface{}{"path": path, "sha": sha, "type": "file"},
			"commit":  map[string]interface{}{"message": put.Message},
		})

	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

// nextSHA hashes content like a git blob, salted with a counter so that
// rewriting identical content still yields a new version token.
func (f *FakeContents) nextSHA(content []byte) string {
	f.counter++
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	fmt.Fprintf(h, "%d", f.counter)
	return hex.EncodeToString(h.Sum(nil))
}

func wrapBase64(content []byte) string {
	enc := base64.StdEncoding.EncodeToString(content)
	var b strings.Builder
	for len(enc) > 60 {
		b.WriteString(enc[:60])
		b.WriteByte('\n')
		enc = enc[60:]
	}
	b.WriteString(enc)
	b.WriteByte('\n')
	return b.String()
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
