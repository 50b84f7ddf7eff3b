package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ddpsdk/internal/services"
)

// FileName is the document the engine writes into its output directory.
const FileName = "metadata.json"

var errEmpty = errors.New("empty document")

// Metadata is the parsed engine document. The engine owns its shape, so the
// tree is kept as decoded; any JSON value is a valid root.
type Metadata struct {
	root any
}

// New wraps an already decoded JSON value.
func New(root any) Metadata {
	return Metadata{root: root}
}

// ParseError reports metadata that could not be read or decoded. Path is empty
// when the document came from captured engine output.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("metadata: parse engine output: %v", e.Err)
	}
	return fmt.Sprintf("metadata: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches services.ErrMetadata so callers can classify without the concrete type.
func (e *ParseError) Is(target error) bool {
	return target == services.ErrMetadata
}

// Parse decodes the first JSON value in raw. Anything after that value is
// ignored, so diagnostics the engine prints once the document is complete
// do not spoil it.
func Parse(raw []byte) (Metadata, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Metadata{}, &ParseError{Err: errEmpty}
	}
	var root any
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&root); err != nil {
		return Metadata{}, &ParseError{Err: err}
	}
	return Metadata{root: root}, nil
}

// ReadFile reads and parses the document at path.
func ReadFile(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, &ParseError{Path: path, Err: err}
	}
	meta, err := Parse(raw)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
		}
		return Metadata{}, err
	}
	return meta, nil
}

// ReadDir reads <dir>/metadata.json.
func ReadDir(dir string) (Metadata, error) {
	return ReadFile(filepath.Join(dir, FileName))
}

// Root returns the decoded document: a map, slice, string, float64, bool or
// nil.
func (m Metadata) Root() any {
	return m.root
}

// Object returns the document when its root is a JSON object, else nil.
func (m Metadata) Object() map[string]any {
	obj, _ := m.root.(map[string]any)
	return obj
}

// Get returns a top-level field, or nil when the root is not an object.
func (m Metadata) Get(key string) any {
	return m.Object()[key]
}

// Tracks returns the `tracks` array, or nil when absent, not an array, or
// when the root is not an object.
func (m Metadata) Tracks() []any {
	tracks, _ := m.Get("tracks").([]any)
	return tracks
}

// TrackCount returns the number of entries in `tracks`.
func (m Metadata) TrackCount() int {
	return len(m.Tracks())
}

// JSON renders the document as indented JSON.
func (m Metadata) JSON() ([]byte, error) {
	return json.MarshalIndent(m.root, "", "  ")
}

// MarshalJSON emits the document itself rather than a wrapper.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.root)
}

// UnmarshalJSON accepts any JSON value as the document root.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return err
	}
	m.root = root
	return nil
}

// MarshalYAML emits the document tree for yaml.v3 encoders.
func (m Metadata) MarshalYAML() (any, error) {
	return m.root, nil
}
