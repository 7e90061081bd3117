// Package store provides the durable key-value boundary the ledger writes
// through. The whole persisted state is two keys: the serialized table
// orders map and the table count.
package store

import (
	"context"
	"sync"
)

// KV is durable string storage. Load reports ok=false for a missing key.
type KV interface {
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, key, value string) error
}

// Memory is a non-durable KV used when no database is configured, and as a
// test double.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Load(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Save(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
