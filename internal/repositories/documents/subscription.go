package documents

import (
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/pkg/docstore"
	"rideadmin/pkg/logger"
)

type decodeFunc[T any] func(doc docstore.Document) (T, error)

type decodedSubscription[T any] struct {
	source  docstore.Subscription
	updates chan interfaces.Snapshot[T]
}

func newDecodedSubscription[T any](source docstore.Subscription, decode decodeFunc[T], log *logger.Logger) *decodedSubscription[T] {
	s := &decodedSubscription[T]{
		source:  source,
		updates: make(chan interfaces.Snapshot[T], 1),
	}

	go func() {
		defer close(s.updates)
		for docs := range source.Updates() {
			snapshot := decodeAll(docs, decode, log)

			// Keep only the latest snapshot for a slow reader.
			select {
			case <-s.updates:
			default:
			}
			s.updates <- snapshot
		}
	}()

	return s
}

func (s *decodedSubscription[T]) Updates() <-chan interfaces.Snapshot[T] {
	return s.updates
}

func (s *decodedSubscription[T]) Err() error {
	return s.source.Err()
}

func (s *decodedSubscription[T]) Stop() {
	s.source.Stop()
}

func decodeAll[T any](docs []docstore.Document, decode decodeFunc[T], log *logger.Logger) interfaces.Snapshot[T] {
	snapshot := interfaces.Snapshot[T]{Items: make([]T, 0, len(docs))}
	for _, doc := range docs {
		item, err := decode(doc)
		if err != nil {
			snapshot.Skipped++
			log.WithError(err).WithField("document_id", doc.ID).Warn("Skipping undecodable record")
			continue
		}
		snapshot.Items = append(snapshot.Items, item)
	}
	return snapshot
}
