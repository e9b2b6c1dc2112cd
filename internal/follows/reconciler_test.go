package follows

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/skillshare/backend/internal/models"
	"github.com/anonto42/skillshare/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFollowCreator_SaturatesCourses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, Followed, f.followCreator(t, 3))

	assert.True(t, f.query.IsCreatorFollowed(ctx, 3))
	for _, c := range []uint{10, 11, 12} {
		assert.True(t, f.query.IsCourseFollowed(ctx, c), "course %d", c)
		assert.True(t, f.query.IsCourseFollowedViaCreator(ctx, c), "course %d", c)
	}
	assert.False(t, f.query.IsCourseFollowed(ctx, 20))

	rec, ok := f.store.Current().Get(models.CreatorKey(3))
	require.True(t, ok)
	assert.Equal(t, []uint{10, 11, 12}, rec.SiblingCourseIDs)
	assert.Equal(t, "Three", rec.Name)
}

func TestFollowCreator_TwiceReturnsToNeutral(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, Followed, f.followCreator(t, 3))
	assert.Equal(t, Unfollowed, f.followCreator(t, 3))

	assert.False(t, f.query.IsCreatorFollowed(ctx, 3))
	for _, c := range []uint{10, 11, 12} {
		assert.False(t, f.query.IsCourseFollowed(ctx, c), "course %d", c)
	}
	assert.Equal(t, 0, f.store.Current().Len())
}

func TestFollowCourse_SplitsCreatorFollow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.followCreator(t, 3)
	assert.Equal(t, Detached, f.followCourse(t, 11))

	assert.False(t, f.query.IsCourseFollowed(ctx, 11))
	assert.True(t, f.query.IsCourseFollowed(ctx, 10))
	assert.True(t, f.query.IsCourseFollowed(ctx, 12))
	assert.False(t, f.query.IsCreatorFollowed(ctx, 3))
	assert.True(t, f.query.HasAnyCreatorCourseFollowed(ctx, 3))

	set := f.store.Current()
	assert.True(t, set.Has(models.CourseKey(10)))
	assert.True(t, set.Has(models.CourseKey(12)))
	assert.False(t, set.Has(models.CourseKey(11)))
	assert.Equal(t, 2, set.Len())
}

func TestFollowCourse_TwiceReturnsToNeutral(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, Followed, f.followCourse(t, 20))
	assert.True(t, f.query.IsCourseFollowed(ctx, 20))
	assert.False(t, f.query.IsCourseFollowedViaCreator(ctx, 20))

	assert.Equal(t, Unfollowed, f.followCourse(t, 20))
	assert.False(t, f.query.IsCourseFollowed(ctx, 20))
	assert.Equal(t, 0, f.store.Current().Len())
}

func TestFollowCreator_MergesPartialFollows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.followCourse(t, 10)
	f.followCourse(t, 20)
	assert.True(t, f.query.HasAnyCreatorCourseFollowed(ctx, 3))
	assert.False(t, f.query.IsCreatorFollowed(ctx, 3))

	// A partially followed creator is unfollowed as a whole first
	assert.Equal(t, Unfollowed, f.followCreator(t, 3))
	assert.False(t, f.query.IsCourseFollowed(ctx, 10))
	assert.True(t, f.query.IsCourseFollowed(ctx, 20), "unrelated creator untouched")

	assert.Equal(t, Followed, f.followCreator(t, 3))
	set := f.store.Current()
	assert.True(t, set.Has(models.CreatorKey(3)))
	for _, c := range []uint{10, 11, 12} {
		assert.False(t, set.Has(models.CourseKey(c)), "course %d", c)
	}
}

func TestPlanCreatorToggle_FollowKeepsUnrelatedRecords(t *testing.T) {
	creator := &models.Creator{ID: 3, Name: "Three"}
	set := NewFollowSet(models.FollowRecord{Key: models.CourseKey(99)})

	next, out := planCreatorToggle(set, creator, []uint{10, 11, 12})
	assert.Equal(t, Followed, out)
	assert.True(t, next.Has(models.CreatorKey(3)))
	assert.True(t, next.Has(models.CourseKey(99)))
	assert.Equal(t, 1, set.Len(), "input set is not mutated")
}

func TestPlanCreatorToggle_CascadingUnfollow(t *testing.T) {
	creator := &models.Creator{ID: 3}
	set := NewFollowSet(
		models.FollowRecord{Key: models.CourseKey(10)},
		models.FollowRecord{Key: models.CourseKey(12)},
		models.FollowRecord{Key: models.CourseKey(20)},
	)

	next, out := planCreatorToggle(set, creator, []uint{10, 11, 12})
	assert.Equal(t, Unfollowed, out)
	assert.Equal(t, 1, next.Len())
	assert.True(t, next.Has(models.CourseKey(20)))
}

func TestPlanCourseToggle_DirectRecordLeavesCreatorAlone(t *testing.T) {
	course := &models.Course{ID: 10, CreatorID: 3}
	set := NewFollowSet(
		models.FollowRecord{Key: models.CourseKey(10)},
		models.FollowRecord{Key: models.CreatorKey(3)},
	)

	next, out := planCourseToggle(set, course, nil)
	assert.Equal(t, Unfollowed, out)
	assert.True(t, next.Has(models.CreatorKey(3)))
	assert.False(t, next.Has(models.CourseKey(10)))
}

func TestScenario_CreatorSevenDetachCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.followCreator(t, 7)
	assert.True(t, f.query.IsCourseFollowed(ctx, 20))
	assert.True(t, f.query.IsCourseFollowed(ctx, 21))
	assert.True(t, f.query.IsCourseFollowedViaCreator(ctx, 20))

	f.followCourse(t, 20)
	assert.False(t, f.query.IsCourseFollowed(ctx, 20))
	assert.True(t, f.query.IsCourseFollowed(ctx, 21))
	assert.False(t, f.query.IsCourseFollowedViaCreator(ctx, 21))
	assert.False(t, f.query.IsCreatorFollowed(ctx, 7))
}

func TestFollow_UnknownIDsLeaveSetUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.followCreator(t, 9)
	before := f.store.Current()

	out, err := f.rec.FollowCreator(ctx, 404)
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Equal(t, Dropped, out)

	out, err = f.rec.FollowCourse(ctx, 404)
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Equal(t, Dropped, out)

	assert.True(t, before.Equal(f.store.Current()))

	// the busy flag is released after an aborted call
	assert.Equal(t, Unfollowed, f.followCreator(t, 9))
}

func TestFollow_CatalogFailureIsNotInvalidReference(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("catalog down")
	rec := NewReconciler(f.store, brokenCatalog{err: boom}, zap.NewNop(), nil)

	_, err := rec.FollowCreator(context.Background(), 3)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidReference)
}

// missingCourseCatalog reports one course as unknown while its creator still lists it
type missingCourseCatalog struct {
	*repositories.StaticCatalogRepository
	missing uint
}

func (m missingCourseCatalog) GetCourseByID(ctx context.Context, id uint) (*models.Course, error) {
	if id == m.missing {
		return nil, repositories.ErrNotFound
	}
	return m.StaticCatalogRepository.GetCourseByID(ctx, id)
}

func TestFollowCourse_UnresolvedSiblingIsCatalogError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.followCreator(t, 3)
	before := f.store.Current()
	rec := NewReconciler(f.store, missingCourseCatalog{StaticCatalogRepository: f.catalog, missing: 12}, zap.NewNop(), nil)

	out, err := rec.FollowCourse(ctx, 11)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidReference)
	assert.Contains(t, err.Error(), "sibling course 12")
	assert.Equal(t, Dropped, out)
	assert.True(t, before.Equal(f.store.Current()))
	assert.True(t, f.store.Current().Has(models.CreatorKey(3)))

	// the busy flag is released after the failed split
	out, err = rec.FollowCreator(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, Unfollowed, out)
}

// blockingCatalog parks the first creator lookup until released
type blockingCatalog struct {
	*repositories.StaticCatalogRepository
	entered chan struct{}
	release chan struct{}
}

func (b *blockingCatalog) GetCreatorByID(ctx context.Context, id uint) (*models.Creator, error) {
	select {
	case b.entered <- struct{}{}:
		<-b.release
	default:
	}
	return b.StaticCatalogRepository.GetCreatorByID(ctx, id)
}

// The busy flag is global: a toggle on one creator drops a concurrent toggle on an unrelated course.
func TestFollow_ConcurrentToggleIsDropped(t *testing.T) {
	f := newFixture(t)
	catalog := &blockingCatalog{
		StaticCatalogRepository: f.catalog,
		entered:                 make(chan struct{}),
		release:                 make(chan struct{}),
	}
	rec := NewReconciler(f.store, catalog, zap.NewNop(), nil)
	ctx := context.Background()

	done := make(chan Outcome)
	go func() {
		out, _ := rec.FollowCreator(ctx, 3)
		done <- out
	}()
	<-catalog.entered

	out, err := rec.FollowCourse(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, Dropped, out)

	close(catalog.release)
	assert.Equal(t, Followed, <-done)

	assert.True(t, f.store.Current().Has(models.CreatorKey(3)))
	assert.False(t, f.store.Current().Has(models.CourseKey(20)))

	out, err = rec.FollowCourse(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, Followed, out)
}

type brokenCatalog struct {
	repositories.CatalogRepository
	err error
}

func (b brokenCatalog) GetCreatorByID(context.Context, uint) (*models.Creator, error) {
	return nil, b.err
}

func (b brokenCatalog) GetCreatorIDs(context.Context) ([]uint, error) {
	return nil, b.err
}
