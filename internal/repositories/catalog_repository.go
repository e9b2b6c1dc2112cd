package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/skillshare/backend/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a course or creator id does not resolve
var ErrNotFound = errors.New("not found")

// CatalogRepository defines the read-only course/creator lookups the follow engine relies on
type CatalogRepository interface {
	GetCourseByID(ctx context.Context, courseID uint) (*models.Course, error)
	GetCreatorByID(ctx context.Context, creatorID uint) (*models.Creator, error)
	GetCourseIDsByCreator(ctx context.Context, creatorID uint) ([]uint, error)
	GetCreatorIDs(ctx context.Context) ([]uint, error)
	GetCreators(ctx context.Context) ([]models.Creator, error)
	GetCoursesByCreator(ctx context.Context, creatorID uint) ([]models.Course, error)
}

// PostgresCatalogRepository implements CatalogRepository for PostgreSQL
type PostgresCatalogRepository struct {
	db *gorm.DB
}

// NewPostgresCatalogRepository creates a new PostgresCatalogRepository
func NewPostgresCatalogRepository(db *gorm.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

// Seed inserts the given creators and their courses when the catalog is empty
func (r *PostgresCatalogRepository) Seed(ctx context.Context, creators []models.Creator) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Creator{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&creators).Error
}

func (r *PostgresCatalogRepository) GetCourseByID(ctx context.Context, courseID uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
		}
		return nil, err
	}
	return &course, nil
}

func (r *PostgresCatalogRepository) GetCreatorByID(ctx context.Context, creatorID uint) (*models.Creator, error) {
	var creator models.Creator
	if err := r.db.WithContext(ctx).First(&creator, creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("creator %d: %w", creatorID, ErrNotFound)
		}
		return nil, err
	}
	return &creator, nil
}

func (r *PostgresCatalogRepository) GetCourseIDsByCreator(ctx context.Context, creatorID uint) ([]uint, error) {
	if _, err := r.GetCreatorByID(ctx, creatorID); err != nil {
		return nil, err
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("creator_id = ?", creatorID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *PostgresCatalogRepository) GetCreatorIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Creator{}).Order("id").Pluck("id", &ids).Error
	return ids, err
}

func (r *PostgresCatalogRepository) GetCreators(ctx context.Context) ([]models.Creator, error) {
	var creators []models.Creator
	if err := r.db.WithContext(ctx).Order("id").Find(&creators).Error; err != nil {
		return nil, err
	}
	return creators, nil
}

func (r *PostgresCatalogRepository) GetCoursesByCreator(ctx context.Context, creatorID uint) ([]models.Course, error) {
	if _, err := r.GetCreatorByID(ctx, creatorID); err != nil {
		return nil, err
	}
	var courses []models.Course
	err := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Order("id").Find(&courses).Error
	return courses, err
}
