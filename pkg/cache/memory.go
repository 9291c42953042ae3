package cache

import (
	"context"
	"strings"
	"time"
)

// DefaultMemoryCapacity bounds the in-process cache when no capacity is given.
const DefaultMemoryCapacity = 10000

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Cache with TTL expiry on top of LRUCache.
// Expired entries are dropped lazily on read.
type Memory struct {
	lru *LRUCache[string, memoryItem]
	now func() time.Time
}

// MemoryOption configures Memory.
type MemoryOption func(*Memory)

// WithMemoryClock overrides the time source. Used by tests.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates an in-process cache holding up to capacity entries.
func NewMemory(capacity int, opts ...MemoryOption) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	m := &Memory{
		lru: NewLRUCache[string, memoryItem](capacity),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	item, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		m.lru.Remove(key)
		return nil, ErrMiss
	}
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	item := memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}
	m.lru.Put(key, item)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.lru.Remove(key)
	}
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.lru.RemoveFunc(func(key string) bool { return strings.HasPrefix(key, prefix) })
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	return m.lru.Len()
}
