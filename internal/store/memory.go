package store

import (
	"context"
	"sync"
)

// MemoryStore keeps objects in process memory. It backs local runs
// (STORAGE_BACKEND=memory) and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	puts    int

	// PutErr, when set, is returned by every Put without storing anything.
	PutErr error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string]Object{}}
}

func memoryKey(container, key string) string {
	return container + "/" + key
}

// Put replaces the object under obj.Container/obj.Key.
func (m *MemoryStore) Put(ctx context.Context, obj Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(obj); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.puts++
	if m.PutErr != nil {
		return m.PutErr
	}

	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	obj.Data = data
	m.objects[memoryKey(obj.Container, obj.Key)] = obj
	return nil
}

// Get returns a copy of the stored content.
func (m *MemoryStore) Get(_ context.Context, container, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[memoryKey(container, key)]
	if !ok {
		return nil, ErrObjectNotFound
	}
	out := make([]byte, len(obj.Data))
	copy(out, obj.Data)
	return out, nil
}

// ContentType returns the media type recorded for the object, if any.
func (m *MemoryStore) ContentType(container, key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[memoryKey(container, key)].ContentType
}

// Puts counts write attempts, failed ones included.
func (m *MemoryStore) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

// Ping only reports context cancellation.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
