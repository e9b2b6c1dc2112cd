package follows

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/anonto42/skillshare/backend/internal/models"
	"github.com/anonto42/skillshare/backend/internal/repositories"
	"go.uber.org/zap"
)

// ErrInvalidReference is returned when a creator or course id does not resolve in the catalog.
// The follow set is left untouched.
var ErrInvalidReference = errors.New("invalid reference")

// Outcome describes what a toggle did
type Outcome int

const (
	// Dropped means another toggle was in progress and this one was ignored
	Dropped Outcome = iota
	Followed
	Unfollowed
	// Detached means a course reached only through a followed creator was removed,
	// and the creator's other courses were kept as individual follows
	Detached
)

func (o Outcome) String() string {
	switch o {
	case Followed:
		return "followed"
	case Unfollowed:
		return "unfollowed"
	case Detached:
		return "detached"
	default:
		return "dropped"
	}
}

// Reconciler applies follow toggles while keeping creator-level and course-level
// records consistent. At most one toggle runs at a time across the whole store;
// calls that arrive meanwhile are dropped, not queued.
type Reconciler struct {
	store   *Store
	catalog repositories.CatalogRepository
	logger  *zap.Logger
	metrics *Metrics

	busy atomic.Bool
}

// NewReconciler creates a Reconciler writing to store
func NewReconciler(store *Store, catalog repositories.CatalogRepository, logger *zap.Logger, metrics *Metrics) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		store:   store,
		catalog: catalog,
		logger:  logger.Named("follows.reconciler"),
		metrics: metrics,
	}
}

// FollowCreator toggles the creator-level follow. If the creator or any of their
// courses is followed, all of it is unfollowed; otherwise the creator is followed
// and any course-level records for their courses are folded into it.
func (r *Reconciler) FollowCreator(ctx context.Context, creatorID uint) (Outcome, error) {
	if !r.busy.CompareAndSwap(false, true) {
		r.logger.Debug("follow creator dropped, another toggle in progress", zap.Uint("creator_id", creatorID))
		r.metrics.observeToggle("creator", Dropped)
		return Dropped, nil
	}
	defer r.busy.Store(false)

	creator, err := r.catalog.GetCreatorByID(ctx, creatorID)
	if err != nil {
		return Dropped, r.invalid("creator", creatorID, err)
	}
	courseIDs, err := r.catalog.GetCourseIDsByCreator(ctx, creatorID)
	if err != nil {
		return Dropped, r.invalid("creator", creatorID, err)
	}

	next, outcome := planCreatorToggle(r.store.Current(), creator, courseIDs)
	r.store.Save(ctx, next)

	r.metrics.observeToggle("creator", outcome)
	r.logger.Info("creator follow toggled",
		zap.Uint("creator_id", creatorID),
		zap.Stringer("outcome", outcome),
		zap.Int("records", next.Len()))
	return outcome, nil
}

// FollowCourse toggles the course-level follow. A course followed only through its
// creator is detached: the creator follow is replaced by individual follows of the
// creator's other courses, and this course ends up not followed.
func (r *Reconciler) FollowCourse(ctx context.Context, courseID uint) (Outcome, error) {
	if !r.busy.CompareAndSwap(false, true) {
		r.logger.Debug("follow course dropped, another toggle in progress", zap.Uint("course_id", courseID))
		r.metrics.observeToggle("course", Dropped)
		return Dropped, nil
	}
	defer r.busy.Store(false)

	course, err := r.catalog.GetCourseByID(ctx, courseID)
	if err != nil {
		return Dropped, r.invalid("course", courseID, err)
	}

	current := r.store.Current()
	var siblings []*models.Course
	if !current.Has(models.CourseKey(courseID)) && current.Has(models.CreatorKey(course.CreatorID)) {
		siblings, err = r.siblingCourses(ctx, course)
		if err != nil {
			// the requested course exists; a sibling that does not resolve is a catalog inconsistency
			r.logger.Error("sibling course lookup failed",
				zap.Uint("course_id", courseID),
				zap.Uint("creator_id", course.CreatorID),
				zap.Error(err))
			return Dropped, fmt.Errorf("course %d: siblings of creator %d: %w", courseID, course.CreatorID, err)
		}
	}

	next, outcome := planCourseToggle(current, course, siblings)
	r.store.Save(ctx, next)

	r.metrics.observeToggle("course", outcome)
	r.logger.Info("course follow toggled",
		zap.Uint("course_id", courseID),
		zap.Uint("creator_id", course.CreatorID),
		zap.Stringer("outcome", outcome),
		zap.Int("records", next.Len()))
	return outcome, nil
}

// siblingCourses returns the other courses of course's creator
func (r *Reconciler) siblingCourses(ctx context.Context, course *models.Course) ([]*models.Course, error) {
	ids, err := r.catalog.GetCourseIDsByCreator(ctx, course.CreatorID)
	if err != nil {
		return nil, err
	}
	siblings := make([]*models.Course, 0, len(ids))
	for _, id := range ids {
		if id == course.ID {
			continue
		}
		sibling, err := r.catalog.GetCourseByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("sibling course %d: %w", id, err)
		}
		siblings = append(siblings, sibling)
	}
	return siblings, nil
}

func (r *Reconciler) invalid(kind string, id uint, err error) error {
	if !errors.Is(err, repositories.ErrNotFound) {
		r.logger.Error("catalog lookup failed", zap.String("kind", kind), zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("%s %d: %w", kind, id, err)
	}
	r.logger.Warn("follow toggle aborted, unknown id", zap.String("kind", kind), zap.Uint("id", id))
	return fmt.Errorf("%s %d: %w", kind, id, ErrInvalidReference)
}

// planCreatorToggle computes the set after toggling creator. courseIDs are all of the creator's courses.
func planCreatorToggle(set FollowSet, creator *models.Creator, courseIDs []uint) (FollowSet, Outcome) {
	creatorKey := models.CreatorKey(creator.ID)
	remove := make([]models.FollowKey, 0, len(courseIDs)+1)
	partial := false
	for _, id := range courseIDs {
		key := models.CourseKey(id)
		if set.Has(key) {
			partial = true
		}
		remove = append(remove, key)
	}

	if set.Has(creatorKey) || partial {
		remove = append(remove, creatorKey)
		return set.replace(remove), Unfollowed
	}
	return set.replace(remove, models.NewCreatorRecord(creator, courseIDs)), Followed
}

// planCourseToggle computes the set after toggling course. siblings are the creator's
// other courses and are only consulted when the course is followed through its creator.
func planCourseToggle(set FollowSet, course *models.Course, siblings []*models.Course) (FollowSet, Outcome) {
	courseKey := models.CourseKey(course.ID)
	creatorKey := models.CreatorKey(course.CreatorID)

	switch {
	case set.Has(courseKey):
		return set.replace([]models.FollowKey{courseKey}), Unfollowed
	case set.Has(creatorKey):
		add := make([]models.FollowRecord, 0, len(siblings))
		for _, sibling := range siblings {
			if sibling.ID == course.ID {
				continue
			}
			add = append(add, models.NewCourseRecord(sibling))
		}
		return set.replace([]models.FollowKey{creatorKey}, add...), Detached
	default:
		return set.replace(nil, models.NewCourseRecord(course)), Followed
	}
}
