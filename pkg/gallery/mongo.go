package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "stitchgrid"
	DefaultMongoCollection = "patterns"
)

// MongoStore stores entries in a MongoDB collection.
//
// Each document keeps the JSON encoding of the entry next to the fields
// that are queried (ID, name, creation time), so the entry schema can evolve
// without a migration.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoEntry is the stored document.
type mongoEntry struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	Data      []byte    `bson:"data"`
}

// NewMongoStore connects to the MongoDB server at uri and prepares the
// collection. Empty database and collection names select the defaults.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Save(ctx context.Context, e *Entry) error {
	if err := prepare(e); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	doc := mongoEntry{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt, Data: data}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Entry, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var doc mongoEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return decodeEntry(doc)
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]*Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit)))

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoEntry
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}

	entries := make([]*Entry, 0, len(docs))
	for _, doc := range docs {
		e, err := decodeEntry(doc)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func decodeEntry(doc mongoEntry) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(doc.Data, &e); err != nil {
		return nil, fmt.Errorf("parse entry %s: %w", doc.ID, err)
	}
	return &e, nil
}

var _ Store = (*MongoStore)(nil)
