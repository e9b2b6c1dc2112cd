package follows

import (
	"context"

	"github.com/anonto42/skillshare/backend/internal/models"
	"github.com/anonto42/skillshare/backend/internal/repositories"
)

// Query answers read-only follow questions against the store's current set
type Query struct {
	store   *Store
	catalog repositories.CatalogRepository
}

// NewQuery creates a Query over store
func NewQuery(store *Store, catalog repositories.CatalogRepository) *Query {
	return &Query{store: store, catalog: catalog}
}

// IsCourseFollowed reports whether the course is followed directly or through its creator
func (q *Query) IsCourseFollowed(ctx context.Context, courseID uint) bool {
	set := q.store.Current()
	if set.Has(models.CourseKey(courseID)) {
		return true
	}
	return q.followedViaCreator(ctx, set, courseID)
}

// IsCourseFollowedViaCreator reports whether the course is followed only because its creator is
func (q *Query) IsCourseFollowedViaCreator(ctx context.Context, courseID uint) bool {
	set := q.store.Current()
	if set.Has(models.CourseKey(courseID)) {
		return false
	}
	return q.followedViaCreator(ctx, set, courseID)
}

func (q *Query) IsCreatorFollowed(_ context.Context, creatorID uint) bool {
	return q.store.Current().Has(models.CreatorKey(creatorID))
}

// HasAnyCreatorCourseFollowed reports whether the creator is followed or any of
// their courses is followed individually
func (q *Query) HasAnyCreatorCourseFollowed(ctx context.Context, creatorID uint) bool {
	set := q.store.Current()
	if set.Has(models.CreatorKey(creatorID)) {
		return true
	}
	courseIDs, err := q.catalog.GetCourseIDsByCreator(ctx, creatorID)
	if err != nil {
		return false
	}
	for _, id := range courseIDs {
		if set.Has(models.CourseKey(id)) {
			return true
		}
	}
	return false
}

// followedViaCreator resolves the course's creator through the catalog. Courses the
// catalog no longer knows are matched against the creator records' sibling snapshots.
func (q *Query) followedViaCreator(ctx context.Context, set FollowSet, courseID uint) bool {
	course, err := q.catalog.GetCourseByID(ctx, courseID)
	if err == nil {
		return set.Has(models.CreatorKey(course.CreatorID))
	}
	for _, r := range set.Records() {
		if r.Key.Kind != models.FollowKindCreator {
			continue
		}
		for _, id := range r.SiblingCourseIDs {
			if id == courseID {
				return true
			}
		}
	}
	return false
}
