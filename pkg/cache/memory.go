package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a single-process Cache used when Redis is disabled and in tests.
type MemoryCache struct {
	mu          sync.Mutex
	entries     map[string]memoryEntry
	subscribers map[string]map[chan string]struct{}
	now         func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries:     make(map[string]memoryEntry),
		subscribers: make(map[string]map[chan string]struct{}),
		now:         time.Now,
	}
}

func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := memoryEntry{data: data}
	if expiration > 0 {
		entry.expiresAt = m.now().Add(expiration)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	entry, ok := m.lookup(key)
	m.mu.Unlock()

	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(entry.data, dest)
}

func (m *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lookup(key)
	return ok, nil
}

func (m *MemoryCache) Publish(ctx context.Context, channel string, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sub := range m.subscribers[channel] {
		select {
		case sub <- message:
		default:
		}
	}
	return nil
}

func (m *MemoryCache) Subscribe(ctx context.Context, channel string) (<-chan string, func(), error) {
	ch := make(chan string, 16)

	m.mu.Lock()
	if m.subscribers[channel] == nil {
		m.subscribers[channel] = make(map[chan string]struct{})
	}
	m.subscribers[channel][ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subscribers[channel], ch)
			m.mu.Unlock()
			close(ch)
		})
	}

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			stop()
		}()
	}

	return ch, stop, nil
}

func (m *MemoryCache) Close() error {
	return nil
}

// lookup must be called with m.mu held.
func (m *MemoryCache) lookup(key string) (memoryEntry, bool) {
	entry, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}
