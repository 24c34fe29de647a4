package auth

import (
	"errors"
	"os"
	"sync"

	"hotelres/internal"
)

// Store persists the token/role pair across process restarts.
type Store interface {
	Load() (Credentials, error)
	Save(Credentials) error
	// Clear removes both keys together.
	Clear() error
}

// FileStore keeps the pair in an AES-GCM sealed JSON file.
type FileStore struct {
	path string
	key  []byte
}

func NewFileStore(path string, key []byte) *FileStore {
	return &FileStore{path: path, key: key}
}

func (f *FileStore) Load() (Credentials, error) {
	var c Credentials
	err := internal.ReadSealedFile(f.path, &c, f.key)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, err
	}
	return c, nil
}

func (f *FileStore) Save(c Credentials) error {
	return internal.WriteSealedFile(f.path, c, f.key)
}

func (f *FileStore) Clear() error {
	return internal.RemoveFile(f.path)
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.Mutex
	creds Credentials
}

func NewMemoryStore(initial Credentials) *MemoryStore {
	return &MemoryStore{creds: initial}
}

func (m *MemoryStore) Load() (Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, nil
}

func (m *MemoryStore) Save(c Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = c
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = Credentials{}
	return nil
}
