// internal/store/mongodb.go
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/valpere/SolarArchiver/internal/catalog"
)

// MongoDBOptions configures the MongoDB catalog backend.
type MongoDBOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// MongoDBWriter upserts the catalog into a collection keyed by date_time,
// inserting only documents that do not exist yet (keep-first).
type MongoDBWriter struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

// NewMongoDBWriter connects to MongoDB and ensures the timestamp index.
func NewMongoDBWriter(opts MongoDBOptions) (*MongoDBWriter, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("MongoDB URI is required")
	}
	if opts.Database == "" {
		opts.Database = "solararchive"
	}
	if opts.Collection == "" {
		opts.Collection = "observations"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(opts.Database).Collection(opts.Collection)
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "date_time", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &MongoDBWriter{client: client, collection: collection, timeout: opts.Timeout}, nil
}

// Write upserts one document per session, leaving existing documents
// untouched.
func (w *MongoDBWriter) Write(sessions []catalog.Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	for _, s := range sessions {
		doc := bson.M{
			"date_time":   s.DateTime.Format(DateTimeLayout),
			"year":        s.Year,
			"month":       s.Month,
			"day":         s.Day,
			"time":        s.TimeOfDay,
			"instruments": s.Instruments,
			"target":      s.Target,
			"comments":    s.Comments,
			"video_links": s.VideoLinks,
			"image_links": s.ImageLinks,
			"links":       s.Links,
			"num_links":   s.NumLinks,
			"polarimetry": boolString(s.Polarimetry),
		}
		filter := bson.M{"date_time": doc["date_time"]}
		update := bson.M{"$setOnInsert": doc}
		if _, err := w.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("failed to upsert session %v: %w", doc["date_time"], err)
		}
	}
	return nil
}

// Close disconnects from MongoDB.
func (w *MongoDBWriter) Close() error {
	if w.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		err := w.client.Disconnect(ctx)
		w.client = nil
		return err
	}
	return nil
}
