// internal/infrastructure/storage/memory.go
package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/your-org/furniture-store/internal/pkg/apperrors"
)

// Memory keeps the encoded document in memory. It is the test double for
// JSONFile, with injectable save failures.
type Memory struct {
	mu      sync.Mutex
	name    string
	data    []byte
	saves   int
	saveErr error
}

// NewMemory creates an empty in-memory persister
func NewMemory(name string) *Memory {
	return &Memory{name: name}
}

// Name returns the collection name
func (m *Memory) Name() string {
	return m.name
}

// Load decodes the last saved document
func (m *Memory) Load(dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return false, nil
	}
	if err := decodeInto(m.data, dest); err != nil {
		return false, apperrors.Wrap(apperrors.KindPersistence, err, fmt.Sprintf("failed to decode %s", m.name))
	}
	return true, nil
}

// Save encodes src, or returns the injected failure if one is set
func (m *Memory) Save(src any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return apperrors.Wrap(apperrors.KindPersistence, m.saveErr, fmt.Sprintf("failed to save %s", m.name))
	}

	data, err := json.Marshal(src)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, err, fmt.Sprintf("failed to encode %s", m.name))
	}
	m.data = data
	m.saves++
	return nil
}

// FailSaves makes every following Save return err. nil restores normal
// behaviour.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves reports how many saves succeeded
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Raw returns a copy of the stored document
func (m *Memory) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}
