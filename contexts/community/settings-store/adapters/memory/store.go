package memory

import (
	"context"
	"sync"

	"quorum/contexts/community/settings-store/ports"
	"quorum/internal/shared/blob"
)

// Store keeps option rows in process memory. Used by tests and local runs.
type Store struct {
	mu   sync.RWMutex
	rows map[string]blob.Blob
}

func NewStore() *Store {
	return &Store{rows: make(map[string]blob.Blob)}
}

var _ ports.OptionRows = (*Store)(nil)

func (s *Store) GetOption(_ context.Context, name string) (blob.Blob, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.rows[name]
	if !ok {
		return nil, false, nil
	}
	copied := make(blob.Blob, len(value))
	copy(copied, value)
	return copied, true, nil
}

func (s *Store) PutOption(_ context.Context, name string, value blob.Blob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(blob.Blob, len(value))
	copy(copied, value)
	s.rows[name] = copied
	return nil
}

func (s *Store) DeleteOption(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, name)
	return nil
}

// SetRaw stores value verbatim, bypassing the codec. Tests use it to plant
// rows that do not decode.
func (s *Store) SetRaw(name string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(blob.Blob, len(value))
	copy(copied, value)
	s.rows[name] = copied
}
