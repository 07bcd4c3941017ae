package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the indexes every repository relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := NewAuthRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := NewNewsletterRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("newsletters indexes: %w", err)
	}
	for _, coll := range []string{projectsCollection, clientsCollection} {
		if err := ensureSortIndex(ctx, db.Collection(coll), "createdAt"); err != nil {
			return fmt.Errorf("%s indexes: %w", coll, err)
		}
	}
	if err := ensureSortIndex(ctx, db.Collection(contactCollection), "submittedAt"); err != nil {
		return fmt.Errorf("%s indexes: %w", contactCollection, err)
	}
	return nil
}

func ensureUniqueIndex(ctx context.Context, coll *mongo.Collection, field string) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func ensureSortIndex(ctx context.Context, coll *mongo.Collection, field string) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: field, Value: -1}},
	})
	return err
}

// parseID converts a path id into an ObjectID; malformed ids are a client error.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.Invalid("invalid id")
	}
	return oid, nil
}

func insertedID(res *mongo.InsertOneResult) primitive.ObjectID {
	if res == nil {
		return primitive.NilObjectID
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid
}

// newestFirst sorts by field descending.
func newestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}
