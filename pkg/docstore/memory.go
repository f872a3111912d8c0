package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

type memoryCollection struct {
	order []string
	docs  map[string]map[string]interface{}
}

type memoryWatcher struct {
	collection string
	filters    []Filter
	feed       *feed
}

// MemoryStore keeps collections in process. Documents are returned in
// insertion order, so snapshots are deterministic.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
	watchers    map[*memoryWatcher]struct{}
	closed      bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
		watchers:    make(map[*memoryWatcher]struct{}),
	}
}

// LoadSeedFile reads a JSON object of collection name to a list of documents,
// each carrying its id under "id". Values of keys ending in "At" that parse as
// RFC 3339 become time.Time.
func (m *MemoryStore) LoadSeedFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed map[string][]map[string]interface{}
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	for collection, docs := range seed {
		for i, doc := range docs {
			id, _ := doc["id"].(string)
			if id == "" {
				return fmt.Errorf("seed %s[%d]: missing id", collection, i)
			}
			delete(doc, "id")
			for k, v := range doc {
				if s, ok := v.(string); ok && len(k) > 2 && k[len(k)-2:] == "At" {
					if t, err := time.Parse(time.RFC3339, s); err == nil {
						doc[k] = t
					}
				}
			}
			m.Put(collection, id, doc)
		}
	}
	return nil
}

// Put inserts or replaces a document and notifies watchers.
func (m *MemoryStore) Put(collection, id string, data map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = copyData(data)
	m.notify(collection)
}

func (m *MemoryStore) Delete(collection, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	if _, exists := c.docs[id]; !exists {
		return
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	m.notify(collection)
}

func (m *MemoryStore) Subscribe(ctx context.Context, collection string, filters ...Filter) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	w := &memoryWatcher{collection: collection, filters: filters, feed: newFeed(nil)}
	w.feed.onStop = func() { m.removeWatcher(w, nil) }
	m.watchers[w] = struct{}{}
	w.feed.publish(m.snapshot(collection, filters))

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				w.feed.Stop()
			case <-w.feed.done:
			}
		}()
	}

	return w.feed, nil
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	doc := memoryDocument(id, data)
	return &doc, nil
}

func (m *MemoryStore) GetAll(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(collection, filters), nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return ErrNotFound
	}
	data, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		data[k] = copyValue(v)
	}
	m.notify(collection)
	return nil
}

// Close ends every open subscription.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for w := range m.watchers {
		delete(m.watchers, w)
		w.feed.finish(ErrClosed)
	}
	return nil
}

// Watchers reports how many subscriptions are open.
func (m *MemoryStore) Watchers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watchers)
}

func (m *MemoryStore) removeWatcher(w *memoryWatcher, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.watchers[w]; !ok {
		return
	}
	delete(m.watchers, w)
	w.feed.finish(err)
}

func (m *MemoryStore) collection(name string) *memoryCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string]map[string]interface{})}
		m.collections[name] = c
	}
	return c
}

// snapshot must be called with m.mu held.
func (m *MemoryStore) snapshot(collection string, filters []Filter) []Document {
	c, ok := m.collections[collection]
	if !ok {
		return []Document{}
	}
	docs := make([]Document, 0, len(c.order))
	for _, id := range c.order {
		data := c.docs[id]
		if !matchAll(filters, data) {
			continue
		}
		docs = append(docs, memoryDocument(id, data))
	}
	return docs
}

func memoryDocument(id string, data map[string]interface{}) Document {
	fields := copyData(data)
	return Document{
		ID:   id,
		Data: fields,
		decode: func(v interface{}) error {
			raw, err := json.Marshal(fields)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", id, err)
			}
			return json.Unmarshal(raw, v)
		},
	}
}

// notify must be called with m.mu held.
func (m *MemoryStore) notify(collection string) {
	for w := range m.watchers {
		if w.collection != collection {
			continue
		}
		w.feed.publish(m.snapshot(collection, w.filters))
	}
}
