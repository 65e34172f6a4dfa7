package project

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"github.com/udayip/portfolio/logger"
	"github.com/udayip/portfolio/storage"
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var documentFormat = &pretty.Options{Width: 80, Indent: "  "}

// ObjectStore keeps the collection in a single JSON object on a BlobStorage.
// With a field set, the collection lives under that top-level key of a larger
// document (for example "projects" in package.json) and every other key is
// preserved in its original order. With no field, the object is the array itself.
type ObjectStore struct {
	blobs  storage.BlobStorage
	path   string
	field  string
	name   string
	logger logger.Logger

	// serializes read-modify-write within this process only
	mu sync.Mutex
}

// NewObjectStore creates a store for the object at path.
func NewObjectStore(name string, blobs storage.BlobStorage, path, field string, log logger.Logger) (*ObjectStore, error) {
	if path == "" {
		return nil, fmt.Errorf("object path is required")
	}
	if field != "" && !fieldPattern.MatchString(field) {
		return nil, fmt.Errorf("invalid document field %q", field)
	}

	return &ObjectStore{
		blobs:  blobs,
		path:   path,
		field:  field,
		name:   name,
		logger: log,
	}, nil
}

// Name implements Store.
func (s *ObjectStore) Name() string { return s.name }

// Get reads the collection. A missing object or missing field yields an empty collection.
func (s *ObjectStore) Get(ctx context.Context) ([]Project, error) {
	data, err := s.blobs.Read(ctx, s.path)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return []Project{}, nil
		}
		s.logger.Error(ctx, "failed to read projects", map[string]interface{}{
			"store":    s.name,
			"location": s.blobs.Describe(s.path),
			"error":    err.Error(),
		})
		return nil, err
	}

	if s.field == "" {
		projects, err := DecodeCollection(data)
		if err != nil {
			return nil, fmt.Errorf("stored object %s: %w", s.blobs.Describe(s.path), err)
		}
		return projects, nil
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("stored document %s is not valid JSON", s.blobs.Describe(s.path))
	}
	value := gjson.GetBytes(data, s.field)
	if !value.Exists() || value.Type == gjson.Null {
		return []Project{}, nil
	}

	projects, err := DecodeCollection([]byte(value.Raw))
	if err != nil {
		return nil, fmt.Errorf("field %q of %s: %w", s.field, s.blobs.Describe(s.path), err)
	}
	return projects, nil
}

// Put writes the collection, rewriting the surrounding document when a field is set.
func (s *ObjectStore) Put(ctx context.Context, projects []Project) error {
	encoded, err := EncodeCollection(projects)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := encoded
	if s.field != "" {
		data, err = s.mergeIntoDocument(ctx, encoded)
		if err != nil {
			return err
		}
	}

	if err := s.blobs.Write(ctx, s.path, data); err != nil {
		s.logger.Error(ctx, "failed to write projects", map[string]interface{}{
			"store":    s.name,
			"location": s.blobs.Describe(s.path),
			"error":    err.Error(),
		})
		return err
	}

	s.logger.Info(ctx, "projects replaced", map[string]interface{}{
		"store":    s.name,
		"location": s.blobs.Describe(s.path),
		"count":    len(projects),
	})
	return nil
}

func (s *ObjectStore) mergeIntoDocument(ctx context.Context, encoded []byte) ([]byte, error) {
	doc, err := s.blobs.Read(ctx, s.path)
	switch {
	case errors.Is(err, storage.ErrFileNotFound):
		doc = []byte("{}")
	case err != nil:
		return nil, err
	case !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject():
		return nil, fmt.Errorf("stored document %s is not a JSON object", s.blobs.Describe(s.path))
	}

	doc, err = sjson.SetRawBytes(doc, s.field, encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to set field %q: %w", s.field, err)
	}
	return pretty.PrettyOptions(doc, documentFormat), nil
}
