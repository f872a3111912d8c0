package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rideadmin/pkg/logger"
)

type Migration struct {
	Version     int
	Description string
	Up          func(ctx context.Context, db *mongo.Database) error
}

// Migrator creates the indexes the console's queries rely on. It never
// touches documents: the collections belong to the ride platform.
type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	logger     *logger.Logger
}

func NewMigrator(db *mongo.Database, log *logger.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
		logger:     log.WithComponent("migrator"),
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}

		m.logger.WithField("version", migration.Version).Info("Running migration: " + migration.Description)

		if err := migration.Up(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if err := m.updateVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection("admin_migrations").FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.db.Collection("admin_migrations").ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)

	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Index users by role",
			Up: func(ctx context.Context, db *mongo.Database) error {
				return createIndexes(ctx, db.Collection("users"), "role", "status")
			},
		},
		{
			Version:     2,
			Description: "Index bookings by participant",
			Up: func(ctx context.Context, db *mongo.Database) error {
				return createIndexes(ctx, db.Collection("bookings"), "clientId", "driverId", "type")
			},
		},
		{
			Version:     3,
			Description: "Index payments by status",
			Up: func(ctx context.Context, db *mongo.Database) error {
				return createIndexes(ctx, db.Collection("payments"), "status")
			},
		},
	}
}

func createIndexes(ctx context.Context, collection *mongo.Collection, fields ...string) error {
	indexes := make([]mongo.IndexModel, 0, len(fields))
	for _, field := range fields {
		indexes = append(indexes, mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}})
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
