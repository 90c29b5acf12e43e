package library

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrRecordNotFound is returned by a Persister when nothing is stored under a key.
var ErrRecordNotFound = errors.New("record not found")

// Storage keys of the persisted records.
const (
	KeyBooks    = "books"
	KeyFolders  = "folders"
	KeySettings = "readerSettings"
)

var recordKeys = []string{KeyBooks, KeyFolders, KeySettings}

// Persister reads and writes named JSON records.
type Persister interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// BatchPersister can write several records in one step. When the injected
// Persister implements it, the store writes all records through SaveAll.
type BatchPersister interface {
	Persister
	SaveAll(records map[string][]byte) error
}

// MemoryPersister keeps records in process memory.
type MemoryPersister struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{records: make(map[string][]byte)}
}

func (m *MemoryPersister) Load(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryPersister) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryPersister) SaveAll(records map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, data := range records {
		m.records[key] = append([]byte(nil), data...)
	}
	return nil
}
