// Package storage provides the key-value capability the coefficient store
// persists through, with in-memory and JSON file backends.
package storage

import (
	"sync"
)

// KeyValue is a string key-value store. Get reports whether key was present.
type KeyValue interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

var _ KeyValue = &Memory{}

// Memory is a KeyValue held in process memory. The zero value is not usable;
// create one with NewMemory.
type Memory struct {
	mu     *sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		mu:     &sync.RWMutex{},
		values: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}
