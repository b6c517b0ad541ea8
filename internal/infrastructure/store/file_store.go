// Package store persists the connection manager state as a JSON file.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"network_manager/internal/app/port"
	"network_manager/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileStore implements port.StateStore over a single JSON file, written
// atomically via a temp file rename.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

var _ port.StateStore = (*FileStore)(nil)

// NewFileStore creates a store writing to path. Parent directories are
// created on the first save.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load returns the stored state, or nil when the file does not exist yet.
func (s *FileStore) Load() (*entity.PersistedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", s.path, err)
	}

	var st entity.PersistedState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to decode state file %s: %w", s.path, err)
	}
	if st.CustomEndpoints == nil {
		st.CustomEndpoints = make(map[string]entity.CustomEndpoint)
	}
	return &st, nil
}

// Save replaces the stored state.
func (s *FileStore) Save(st entity.PersistedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	s.logger.Debug("state persisted", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return nil
}
