package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
)

// Content types of the exported formats.
const (
	ContentTypePNG  = "image/png"
	ContentTypeJSON = "application/json"
	ContentTypeSVG  = "image/svg+xml"
	ContentTypeDOT  = "text/vnd.graphviz"
	ContentTypeYAML = "application/yaml"
)

// Artifact is one exported file.
type Artifact struct {
	Name        string // File name, e.g. "Demo-workflow.png"
	ContentType string // MIME type
	Data        []byte
}

// Sink receives exported artifacts.
type Sink interface {
	Deliver(ctx context.Context, a Artifact) error
}

// =============================================================================
// DirSink
// =============================================================================

// DirSink writes each artifact to <dir>/<name>, replacing existing files.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink writing into dir. The directory is created if it
// does not exist. An empty dir means the current directory.
func NewDirSink(dir string) (*DirSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeSinkFailed, err, "create output dir %s", dir)
	}
	return &DirSink{dir: dir}, nil
}

// Deliver writes the artifact file.
func (s *DirSink) Deliver(ctx context.Context, a Artifact) error {
	if err := apperrors.ValidateArtifactName(a.Name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(s.Path(a.Name), a.Data, 0644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeSinkFailed, err, "write %s", a.Name)
	}
	return nil
}

// Path returns where an artifact with the given name is written.
func (s *DirSink) Path(name string) string { return filepath.Join(s.dir, name) }

// Dir returns the output directory.
func (s *DirSink) Dir() string { return s.dir }

// =============================================================================
// WriterSink
// =============================================================================

// WriterSink writes raw artifact bytes to an io.Writer, ignoring the name.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink streaming to w.
func NewWriterSink(w io.Writer) *WriterSink { return &WriterSink{w: w} }

// Deliver writes a.Data to the underlying writer.
func (s *WriterSink) Deliver(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(a.Data); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeSinkFailed, err, "write %s", a.Name)
	}
	return nil
}

// =============================================================================
// MemorySink
// =============================================================================

// MemorySink collects delivered artifacts in order. It is safe for concurrent
// use.
type MemorySink struct {
	mu        sync.Mutex
	artifacts []Artifact
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink { return &MemorySink{} }

// Deliver records a copy of the artifact.
func (s *MemorySink) Deliver(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.Data = append([]byte(nil), a.Data...)
	s.mu.Lock()
	s.artifacts = append(s.artifacts, a)
	s.mu.Unlock()
	return nil
}

// Artifacts returns the delivered artifacts in delivery order.
func (s *MemorySink) Artifacts() []Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Artifact(nil), s.artifacts...)
}

// Get returns the most recent artifact with the given name.
func (s *MemorySink) Get(name string) (Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.artifacts) - 1; i >= 0; i-- {
		if s.artifacts[i].Name == name {
			return s.artifacts[i], true
		}
	}
	return Artifact{}, false
}

// =============================================================================
// Compile-time checks
// =============================================================================

var (
	_ Sink = (*DirSink)(nil)
	_ Sink = (*WriterSink)(nil)
	_ Sink = (*MemorySink)(nil)
	_ Sink = (*RedisSink)(nil)
	_ Sink = (*MongoSink)(nil)
)

// Describe returns a short human-readable destination for logs.
func Describe(s Sink) string {
	switch v := s.(type) {
	case *DirSink:
		return v.dir
	case *WriterSink:
		return "stdout"
	case *MemorySink:
		return "memory"
	case *RedisSink:
		return "redis:" + v.prefix + "*"
	case *MongoSink:
		return fmt.Sprintf("mongodb:%s.%s", v.coll.Database().Name(), v.coll.Name())
	default:
		return fmt.Sprintf("%T", s)
	}
}
