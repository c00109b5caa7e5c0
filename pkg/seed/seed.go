package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"
)

// Common errors for seed loading.
var (
	ErrFileNotFound     = errors.New("seed file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrNullDocument     = errors.New("seed document is null")
)

// Format identifies the encoding of a seed document.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks a format from the file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Source produces a fresh Snapshot on every call. The store calls Load once at
// startup and again on every reset.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
	// Name describes the source in logs and error messages.
	Name() string
}

// FileSource reads the seed document from disk on every Load.
type FileSource struct {
	Path string
}

// NewFileSource returns a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Name returns the file path.
func (s *FileSource) Name() string {
	return s.Path
}

// Load reads and parses the file.
func (s *FileSource) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Source: s.Path, Op: "read", Err: err}
	}

	file, err := os.Open(s.Path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			err = fmt.Errorf("%w: %s", ErrFileNotFound, s.Path)
		case os.IsPermission(err):
			err = fmt.Errorf("%w: %s", ErrPermissionDenied, s.Path)
		}
		return nil, &Error{Source: s.Path, Op: "read", Err: err}
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &Error{Source: s.Path, Op: "read", Err: err}
	}

	snap, err := Parse(data, FormatForPath(s.Path))
	if err != nil {
		return nil, &Error{Source: s.Path, Op: "parse", Err: err}
	}
	snap.Source = s.Path
	return snap, nil
}

// BytesSource serves a fixed in-memory document. Every Load parses the bytes
// again, so callers always receive records they are free to mutate.
type BytesSource struct {
	Label  string
	Data   []byte
	Format Format
}

// NewBytesSource returns a JSON BytesSource.
func NewBytesSource(label string, data []byte) *BytesSource {
	return &BytesSource{Label: label, Data: data, Format: FormatJSON}
}

// Name returns the label.
func (s *BytesSource) Name() string {
	return s.Label
}

// Load parses the stored bytes.
func (s *BytesSource) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Source: s.Label, Op: "read", Err: err}
	}
	format := s.Format
	if format == "" {
		format = FormatJSON
	}
	snap, err := Parse(s.Data, format)
	if err != nil {
		return nil, &Error{Source: s.Label, Op: "parse", Err: err}
	}
	snap.Source = s.Label
	return snap, nil
}

// Parse decodes a seed document. JSON keeps integers as int64 so ids survive
// a load/serve round trip unchanged.
//
// A null document is an error. Any other top-level value that is not an
// object has no collections, so every collection comes out empty.
func Parse(data []byte, format Format) (*Snapshot, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
	default:
		v, err := oj.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		doc = v
	}

	if doc == nil {
		return nil, ErrNullDocument
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		obj = map[string]any{}
	}
	return &Snapshot{doc: obj}, nil
}
