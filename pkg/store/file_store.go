package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one pretty-printed JSON array per resource in a directory.
// The mutex serialises individual reads and writes only.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the data directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(resource string) string {
	return filepath.Join(s.dir, resource+".json")
}

func (s *FileStore) ReadAll(_ context.Context, resource string) ([]json.RawMessage, error) {
	if err := validResource(resource); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(resource))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", resource, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []json.RawMessage{}, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", resource, err)
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

func (s *FileStore) WriteAll(_ context.Context, resource string, records []json.RawMessage) error {
	if err := validResource(resource); err != nil {
		return err
	}
	if records == nil {
		records = []json.RawMessage{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", resource, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeFile(resource, data)
}

func (s *FileStore) Init(_ context.Context, resources ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, resource := range resources {
		if err := validResource(resource); err != nil {
			return err
		}
		_, err := os.Stat(s.path(resource))
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", resource, err)
		}
		if err := s.writeFile(resource, []byte("[]")); err != nil {
			return err
		}
	}
	return nil
}

// writeFile replaces the resource file through a rename so readers never see
// a half-written array. Caller holds mu.
func (s *FileStore) writeFile(resource string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, resource+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", resource, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", resource, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", resource, err)
	}
	if err := os.Rename(tmpName, s.path(resource)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", resource, err)
	}
	return nil
}
