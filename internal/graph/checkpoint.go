package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tadeodonegana/nube-agent/internal/llm"
)

// Store persists conversation history per session so a conversation can
// survive a process restart. Pause state is deliberately not persisted:
// a pending approval belongs to the operator sitting at the terminal.
type Store interface {
	Save(sessionID string, history []llm.Message) error
	Load(sessionID string) ([]llm.Message, bool, error)
}

// MemoryStore keeps history in the process. Everything is lost on exit.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]llm.Message
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]llm.Message)}
}

func (m *MemoryStore) Save(sessionID string, history []llm.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append([]llm.Message(nil), history...)
	return nil
}

func (m *MemoryStore) Load(sessionID string) ([]llm.Message, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history, ok := m.sessions[sessionID]
	if !ok {
		return nil, false, nil
	}
	return append([]llm.Message(nil), history...), true, nil
}

// FileStore writes one JSON file per session under a directory, with a
// read-through cache in front of the disk.
type FileStore struct {
	dir   string
	mu    sync.RWMutex
	cache map[string][]llm.Message
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	return &FileStore{
		dir:   dir,
		cache: make(map[string][]llm.Message),
	}, nil
}

func (f *FileStore) Save(sessionID string, history []llm.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache[sessionID] = append([]llm.Message(nil), history...)

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path(sessionID), data, 0644)
}

func (f *FileStore) Load(sessionID string) ([]llm.Message, bool, error) {
	f.mu.RLock()
	if history, ok := f.cache[sessionID]; ok {
		f.mu.RUnlock()
		return append([]llm.Message(nil), history...), true, nil
	}
	f.mu.RUnlock()

	data, err := os.ReadFile(f.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var history []llm.Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, false, fmt.Errorf("corrupt checkpoint %s: %w", sessionID, err)
	}

	f.mu.Lock()
	f.cache[sessionID] = history
	f.mu.Unlock()
	return append([]llm.Message(nil), history...), true, nil
}

func (f *FileStore) path(sessionID string) string {
	return filepath.Join(f.dir, sessionID+".json")
}
