// Package docstore is a thin document database abstraction: live full-snapshot
// subscriptions over a collection, single document reads and partial writes.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrClosed   = errors.New("store closed")
)

// Document is one record of a collection. Data holds the fields as the
// backend reports them; DataTo decodes them into a tagged struct.
type Document struct {
	ID   string
	Data map[string]interface{}

	decode func(v interface{}) error
}

// DataTo populates the struct pointed to by v. Firestore reads `firestore`
// tags, MongoDB reads `bson` tags and the memory store reads `json` tags, so
// record structs carry all three.
func (d Document) DataTo(v interface{}) error {
	if d.decode == nil {
		return fmt.Errorf("document %s has no decoder", d.ID)
	}
	return d.decode(v)
}

// Filter is an equality condition on a top-level field.
type Filter struct {
	Field string
	Value interface{}
}

func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Value: value}
}

func (f Filter) matches(data map[string]interface{}) bool {
	v, ok := data[f.Field]
	if !ok {
		return false
	}
	return reflect.DeepEqual(v, f.Value)
}

func matchAll(filters []Filter, data map[string]interface{}) bool {
	for _, f := range filters {
		if !f.matches(data) {
			return false
		}
	}
	return true
}

// Subscription delivers the full, filtered contents of a collection every
// time it changes. Updates is closed when the subscription ends, either by
// Stop or because the source failed; Err reports the failure.
// A slow reader only ever sees the latest snapshot.
type Subscription interface {
	Updates() <-chan []Document
	Err() error
	Stop()
}

type Store interface {
	Subscribe(ctx context.Context, collection string, filters ...Filter) (Subscription, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	GetAll(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Close() error
}

type feed struct {
	updates  chan []Document
	done     chan struct{}
	cancel   context.CancelFunc
	stopOnce sync.Once
	endOnce  sync.Once
	mu       sync.Mutex
	err      error
	onStop   func()
}

func newFeed(cancel context.CancelFunc) *feed {
	return &feed{
		updates: make(chan []Document, 1),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
}

func (f *feed) Updates() <-chan []Document {
	return f.updates
}

func (f *feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *feed) Stop() {
	f.stopOnce.Do(func() {
		close(f.done)
		if f.cancel != nil {
			f.cancel()
		}
		if f.onStop != nil {
			f.onStop()
		}
	})
}

// publish hands docs to the reader, replacing a snapshot it has not taken yet.
// Only one goroutine may publish on a feed at a time.
func (f *feed) publish(docs []Document) bool {
	select {
	case <-f.done:
		return false
	default:
	}

	select {
	case <-f.updates:
	default:
	}

	select {
	case f.updates <- docs:
		return true
	case <-f.done:
		return false
	}
}

// finish closes the update channel. The producer calls it exactly when it
// will publish no more.
func (f *feed) finish(err error) {
	f.endOnce.Do(func() {
		f.mu.Lock()
		f.err = err
		f.mu.Unlock()
		close(f.updates)
	})
}

func copyData(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return nil
	}
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		return copyData(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
