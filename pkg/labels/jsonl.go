package labels

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// DefaultFilename is the JSONL file written into the output directory.
const DefaultFilename = "labels.jsonl"

// JSONLStore appends records as JSON lines.
type JSONLStore struct {
	mu   sync.Mutex
	f    *os.File
	enc  *json.Encoder
	path string
}

// NewJSONLStore opens path for appending, creating it if needed.
func NewJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open labels %s: %w", path, err)
	}
	return &JSONLStore{f: f, enc: json.NewEncoder(f), path: path}, nil
}

// Path returns the file being written.
func (s *JSONLStore) Path() string {
	return s.path
}

// Put appends one line. Lines are written whole under a lock so concurrent
// workers never interleave.
func (s *JSONLStore) Put(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("write label %s: %w", rec.Frame, err)
	}
	return nil
}

// Close flushes and closes the file.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.f.Sync(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

var _ Store = (*JSONLStore)(nil)
