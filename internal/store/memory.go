package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value    string
	deadline time.Time
}

// memoryKV is the non-persistent fallback used when Redis is down.
type memoryKV struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func newMemoryKV() *memoryKV {
	m := &memoryKV{entries: make(map[string]memoryEntry)}
	go m.janitor()
	return m
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || expired(e) {
		delete(m.entries, key)
		return "", ErrNotFound
	}
	return e.value, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	var deadline time.Time
	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, deadline: deadline}
	m.mu.Unlock()
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *memoryKV) GetDel(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	delete(m.entries, key)
	if !ok || expired(e) {
		return "", ErrNotFound
	}
	return e.value, nil
}

func (m *memoryKV) Backend() string { return "memory" }

func expired(e memoryEntry) bool {
	return !e.deadline.IsZero() && time.Now().After(e.deadline)
}

func (m *memoryKV) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		m.mu.Lock()
		for key, e := range m.entries {
			if expired(e) {
				delete(m.entries, key)
			}
		}
		m.mu.Unlock()
	}
}
