package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/skillshare/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticCatalogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStaticCatalogRepository([]models.Creator{
		{ID: 7, Name: "Seven", Courses: []models.Course{{ID: 21}, {ID: 20}}},
		{ID: 2, Name: "Two"},
	})

	course, err := repo.GetCourseByID(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, uint(7), course.CreatorID)

	ids, err := repo.GetCourseIDsByCreator(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []uint{20, 21}, ids)

	ids, err = repo.GetCourseIDsByCreator(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, ids)

	creators, err := repo.GetCreatorIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 7}, creators)

	_, err = repo.GetCourseByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetCreatorByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetCourseIDsByCreator(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefaultCatalog_CourseIDsAreUnique(t *testing.T) {
	seen := map[uint]bool{}
	for _, creator := range DefaultCatalog() {
		for _, course := range creator.Courses {
			assert.False(t, seen[course.ID], "course %d", course.ID)
			seen[course.ID] = true
		}
	}
	assert.NotEmpty(t, seen)
}
