package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/skillshare/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresKeyValueRepository implements KeyValueRepository for PostgreSQL
type PostgresKeyValueRepository struct {
	db *gorm.DB
}

// NewPostgresKeyValueRepository creates a new PostgresKeyValueRepository
func NewPostgresKeyValueRepository(db *gorm.DB) *PostgresKeyValueRepository {
	return &PostgresKeyValueRepository{db: db}
}

func (r *PostgresKeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.KVEntry
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return entry.Value, nil
}

func (r *PostgresKeyValueRepository) Set(ctx context.Context, key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}
