// Package mongo provides an evidence source backed by a MongoDB collection.
// Search is keyword-based using case-insensitive regex matching on the
// evidence text, which works well for corpora too small to warrant a vector
// index.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/sweetpotato0/sleuth/evidence"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config holds MongoDB connection configuration.
type Config struct {
	URI        string
	Database   string
	Collection string
	TopK       int // Records returned per search (default: 3)
}

// DefaultConfig returns default MongoDB configuration.
func DefaultConfig() *Config {
	return &Config{
		URI:        "mongodb://localhost:27017",
		Database:   "sleuth",
		Collection: "evidence",
		TopK:       3,
	}
}

// document is the internal representation for MongoDB.
type document struct {
	ID        string            `bson:"_id"`
	Text      string            `bson:"text"`
	Metadata  map[string]string `bson:"metadata"`
	CreatedAt time.Time         `bson:"created_at"`
}

// Store implements evidence.Source over a MongoDB collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	topK       int
}

// New connects to MongoDB, ensures indexes exist and returns the store.
func New(config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	topK := config.TopK
	if topK <= 0 {
		topK = 3
	}
	store := &Store{
		client:     client,
		collection: client.Database(config.Database).Collection(config.Collection),
		topK:       topK,
	}

	if err := store.createIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return store, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}
	_, err := s.collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

// Add stores one piece of evidence text under the given id, upserting on
// conflict.
func (s *Store) Add(ctx context.Context, id, text string, metadata map[string]string) error {
	if id == "" {
		return fmt.Errorf("evidence id cannot be empty")
	}
	if text == "" {
		return fmt.Errorf("evidence text cannot be empty")
	}
	if metadata == nil {
		metadata = make(map[string]string)
	}

	doc := document{
		ID:        id,
		Text:      text,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"_id": id}
	if _, err := s.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to add evidence to MongoDB: %w", err)
	}
	return nil
}

// Search implements evidence.Source with a case-insensitive regex match over
// the evidence text. An empty query matches nothing.
func (s *Store) Search(ctx context.Context, query string) ([]evidence.Record, error) {
	if query == "" {
		return []evidence.Record{}, nil
	}

	filter := bson.M{
		"text": bson.M{"$regex": query, "$options": "i"},
	}

	findOpts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(s.topK))

	cursor, err := s.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to search evidence: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode evidence: %w", err)
	}

	records := make([]evidence.Record, len(docs))
	for i, d := range docs {
		records[i] = evidence.Record{
			ID:       d.ID,
			Text:     d.Text,
			Metadata: d.Metadata,
		}
	}
	return records, nil
}

// Count returns the number of evidence documents in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count evidence: %w", err)
	}
	return int(count), nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.client.Disconnect(ctx)
}

// Ping checks if the MongoDB connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
