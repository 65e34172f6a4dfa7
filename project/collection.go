package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidCollection is returned when a payload is not a JSON array of project objects.
var ErrInvalidCollection = errors.New("projects must be an array")

// DecodeCollection parses raw as a JSON array of projects.
func DecodeCollection(raw []byte) ([]Project, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidCollection
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}

	projects := make([]Project, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidCollection, i)
		}
		var p Project
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidCollection, i, err)
		}
		projects = append(projects, p)
	}

	return projects, nil
}

// EncodeCollection renders projects as a two-space indented JSON array.
// HTML characters are not escaped and a nil collection renders as [].
func EncodeCollection(projects []Project) ([]byte, error) {
	if projects == nil {
		projects = []Project{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(projects); err != nil {
		return nil, fmt.Errorf("failed to encode projects: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Clone returns a copy of projects that shares no backing array with it.
// The result is never nil.
func Clone(projects []Project) []Project {
	out := make([]Project, len(projects))
	copy(out, projects)
	return out
}

// Find returns the index of the project with the given ID, or -1.
func Find(projects []Project, id string) int {
	for i := range projects {
		if projects[i].ID == id {
			return i
		}
	}
	return -1
}

// Upsert replaces the project with p.ID in place, or appends p.
func Upsert(projects []Project, p Project) []Project {
	out := Clone(projects)
	if i := Find(out, p.ID); i >= 0 {
		out[i] = p
		return out
	}
	return append(out, p)
}

// Remove returns projects without the entry with the given ID.
func Remove(projects []Project, id string) ([]Project, error) {
	i := Find(projects, id)
	if i < 0 {
		return nil, ErrProjectNotFound
	}
	out := make([]Project, 0, len(projects)-1)
	out = append(out, projects[:i]...)
	return append(out, projects[i+1:]...), nil
}

// Apply runs setters against the project with the given ID and returns the
// updated collection. The input is not modified.
func Apply(projects []Project, id string, setters ...UpdateSetter) ([]Project, error) {
	i := Find(projects, id)
	if i < 0 {
		return nil, ErrProjectNotFound
	}

	out := Clone(projects)
	for _, setter := range setters {
		if err := setter(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
