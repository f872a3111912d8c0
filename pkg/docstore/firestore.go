package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// NewFirestoreStoreFromApp opens the default Firestore database of a Firebase app.
func NewFirestoreStoreFromApp(ctx context.Context, app *firebase.App) (*FirestoreStore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}
	return NewFirestoreStore(client), nil
}

func (s *FirestoreStore) query(collection string, filters []Filter) firestore.Query {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}
	return q
}

func (s *FirestoreStore) Subscribe(ctx context.Context, collection string, filters ...Filter) (Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	it := s.query(collection, filters).Snapshots(ctx)
	f := newFeed(cancel)

	go func() {
		defer it.Stop()

		for {
			qs, err := it.Next()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
					f.finish(nil)
					return
				}
				f.finish(fmt.Errorf("failed to read %s snapshot: %w", collection, err))
				return
			}

			snaps, err := qs.Documents.GetAll()
			if err != nil {
				f.finish(fmt.Errorf("failed to read %s documents: %w", collection, err))
				return
			}

			if !f.publish(fromFirestore(snaps)) {
				f.finish(nil)
				return
			}
		}
	}()

	return f, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	if !snap.Exists() {
		return nil, ErrNotFound
	}
	doc := fromSnapshot(snap)
	return &doc, nil
}

func (s *FirestoreStore) GetAll(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	snaps, err := s.query(collection, filters).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return fromFirestore(snaps), nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if id == "" {
		return ErrNotFound
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{Path: k, Value: fields[k]})
	}

	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func fromFirestore(snaps []*firestore.DocumentSnapshot) []Document {
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, fromSnapshot(snap))
	}
	return docs
}

func fromSnapshot(snap *firestore.DocumentSnapshot) Document {
	return Document{ID: snap.Ref.ID, Data: snap.Data(), decode: snap.DataTo}
}
