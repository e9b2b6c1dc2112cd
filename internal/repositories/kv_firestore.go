package repositories

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreKeyValueRepository implements KeyValueRepository on a Firestore collection,
// one document per key
type FirestoreKeyValueRepository struct {
	collection *firestore.CollectionRef
}

// NewFirestoreKeyValueRepository creates a new FirestoreKeyValueRepository
func NewFirestoreKeyValueRepository(client *firestore.Client) *FirestoreKeyValueRepository {
	return &FirestoreKeyValueRepository{collection: client.Collection("kv")}
}

func (r *FirestoreKeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	snap, err := r.collection.Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	v, err := snap.DataAt("value")
	if err != nil {
		return nil, err
	}
	value, ok := v.([]byte)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return value, nil
}

func (r *FirestoreKeyValueRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.collection.Doc(key).Set(ctx, map[string]interface{}{
		"value":      value,
		"updated_at": time.Now(),
	})
	return err
}
