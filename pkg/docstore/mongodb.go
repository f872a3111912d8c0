package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore serves subscriptions from change streams, so the server must
// run as a replica set. Each change event triggers a full re-read of the
// filtered collection.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Subscribe(ctx context.Context, collection string, filters ...Filter) (Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	// Open the stream before the first read so no change between the two is lost.
	stream, err := s.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch %s: %w", collection, err)
	}

	f := newFeed(cancel)

	go func() {
		defer stream.Close(context.Background())

		docs, err := s.GetAll(ctx, collection, filters...)
		if err != nil {
			f.finish(ignoreCanceled(ctx, err))
			return
		}
		if !f.publish(docs) {
			f.finish(nil)
			return
		}

		for stream.Next(ctx) {
			docs, err := s.GetAll(ctx, collection, filters...)
			if err != nil {
				f.finish(ignoreCanceled(ctx, err))
				return
			}
			if !f.publish(docs) {
				f.finish(nil)
				return
			}
		}

		f.finish(ignoreCanceled(ctx, stream.Err()))
	}()

	return f, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	raw, err := s.db.Collection(collection).FindOne(ctx, idFilter(id)).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	doc, err := fromRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return &doc, nil
}

func (s *MongoStore) GetAll(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	query := bson.M{}
	for _, f := range filters {
		query[f.Field] = f.Value
	}

	cursor, err := s.db.Collection(collection).Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	docs := make([]Document, 0, cursor.RemainingBatchLength())
	for cursor.Next(ctx) {
		// Current is only valid until the next call to Next.
		raw := make(bson.Raw, len(cursor.Current))
		copy(raw, cursor.Current)

		doc, err := fromRaw(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}
	return docs, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	result, err := s.db.Collection(collection).UpdateOne(ctx, idFilter(id), bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close is a no-op; the connection belongs to the caller.
func (s *MongoStore) Close() error {
	return nil
}

// idFilter matches a string id as stored, or as an ObjectID when it has that form.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

func ignoreCanceled(ctx context.Context, err error) error {
	if err == nil || ctx.Err() != nil {
		return nil
	}
	return err
}

// fromRaw keeps the raw bytes so DataTo can decode them with bson tags.
func fromRaw(raw bson.Raw) (Document, error) {
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return Document{}, err
	}
	delete(fields, "_id")

	return Document{
		ID:   idString(raw.Lookup("_id")),
		Data: fields,
		decode: func(v interface{}) error {
			return bson.Unmarshal(raw, v)
		},
	}, nil
}

func idString(v bson.RawValue) string {
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if id, ok := v.StringValueOK(); ok {
		return id
	}
	return v.String()
}
