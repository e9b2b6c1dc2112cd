package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoKeyValueRepository implements KeyValueRepository for MongoDB
type MongoKeyValueRepository struct {
	collection *mongo.Collection
}

// NewMongoKeyValueRepository creates a new MongoKeyValueRepository
func NewMongoKeyValueRepository(db *mongo.Database) *MongoKeyValueRepository {
	return &MongoKeyValueRepository{collection: db.Collection("kv")}
}

func (r *MongoKeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return doc.Value, nil
}

func (r *MongoKeyValueRepository) Set(ctx context.Context, key string, value []byte) error {
	doc := kvDocument{Key: key, Value: value, UpdatedAt: time.Now()}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}
