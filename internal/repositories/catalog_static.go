package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/anonto42/skillshare/backend/internal/models"
)

// StaticCatalogRepository serves a fixed catalog held in memory
type StaticCatalogRepository struct {
	creators map[uint]models.Creator
	courses  map[uint]models.Course
	byAuthor map[uint][]uint
}

// NewStaticCatalogRepository indexes the given creators and their nested courses.
// A course's CreatorID is taken from the creator it is nested under.
func NewStaticCatalogRepository(creators []models.Creator) *StaticCatalogRepository {
	r := &StaticCatalogRepository{
		creators: make(map[uint]models.Creator, len(creators)),
		courses:  make(map[uint]models.Course),
		byAuthor: make(map[uint][]uint, len(creators)),
	}
	for _, creator := range creators {
		for _, course := range creator.Courses {
			course.CreatorID = creator.ID
			r.courses[course.ID] = course
			r.byAuthor[creator.ID] = append(r.byAuthor[creator.ID], course.ID)
		}
		sort.Slice(r.byAuthor[creator.ID], func(i, j int) bool {
			return r.byAuthor[creator.ID][i] < r.byAuthor[creator.ID][j]
		})
		creator.Courses = nil
		r.creators[creator.ID] = creator
	}
	return r
}

func (r *StaticCatalogRepository) GetCourseByID(_ context.Context, courseID uint) (*models.Course, error) {
	course, ok := r.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
	}
	return &course, nil
}

func (r *StaticCatalogRepository) GetCreatorByID(_ context.Context, creatorID uint) (*models.Creator, error) {
	creator, ok := r.creators[creatorID]
	if !ok {
		return nil, fmt.Errorf("creator %d: %w", creatorID, ErrNotFound)
	}
	return &creator, nil
}

func (r *StaticCatalogRepository) GetCourseIDsByCreator(_ context.Context, creatorID uint) ([]uint, error) {
	if _, ok := r.creators[creatorID]; !ok {
		return nil, fmt.Errorf("creator %d: %w", creatorID, ErrNotFound)
	}
	ids := make([]uint, len(r.byAuthor[creatorID]))
	copy(ids, r.byAuthor[creatorID])
	return ids, nil
}

func (r *StaticCatalogRepository) GetCreatorIDs(_ context.Context) ([]uint, error) {
	ids := make([]uint, 0, len(r.creators))
	for id := range r.creators {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *StaticCatalogRepository) GetCreators(ctx context.Context) ([]models.Creator, error) {
	ids, _ := r.GetCreatorIDs(ctx)
	creators := make([]models.Creator, 0, len(ids))
	for _, id := range ids {
		creators = append(creators, r.creators[id])
	}
	return creators, nil
}

func (r *StaticCatalogRepository) GetCoursesByCreator(ctx context.Context, creatorID uint) ([]models.Course, error) {
	ids, err := r.GetCourseIDsByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	courses := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		courses = append(courses, r.courses[id])
	}
	return courses, nil
}

// DefaultCatalog is the catalog the dashboard ships with
func DefaultCatalog() []models.Creator {
	return []models.Creator{
		{
			ID: 1, Name: "Amara Okafor", Avatar: "/avatars/amara.png", Rating: 4.8, StudentCount: 12840,
			Bio: "Backend engineer teaching distributed systems from first principles.",
			Courses: []models.Course{
				{ID: 101, Title: "Go for Backend Engineers", Category: "Programming", Price: 49.99, Rating: 4.9, StudentCount: 5210,
					Description: "Build production HTTP services in Go."},
				{ID: 102, Title: "Designing Data Pipelines", Category: "Data", Price: 59.99, Rating: 4.7, StudentCount: 3120,
					Description: "Batch and streaming pipelines that survive real traffic."},
				{ID: 103, Title: "Practical Distributed Systems", Category: "Programming", Price: 69.99, Rating: 4.8, StudentCount: 4510,
					Description: "Consensus, replication and failure handling."},
			},
		},
		{
			ID: 2, Name: "Lucas Moreau", Avatar: "/avatars/lucas.png", Rating: 4.6, StudentCount: 8420,
			Bio: "Product designer and illustrator.",
			Courses: []models.Course{
				{ID: 201, Title: "UI Design Fundamentals", Category: "Design", Price: 29.99, Rating: 4.6, StudentCount: 6020,
					Description: "Layout, type and color for interfaces."},
				{ID: 202, Title: "Illustration for the Web", Category: "Design", Price: 34.99, Rating: 4.5, StudentCount: 2400,
					Description: "Vector illustration workflows."},
			},
		},
		{
			ID: 3, Name: "Priya Raman", Avatar: "/avatars/priya.png", Rating: 4.9, StudentCount: 15300,
			Bio: "Data scientist, ex-research, now teaching applied ML.",
			Courses: []models.Course{
				{ID: 301, Title: "Statistics Without Tears", Category: "Data", Price: 39.99, Rating: 4.9, StudentCount: 7800,
					Description: "The statistics you actually use at work."},
				{ID: 302, Title: "Applied Machine Learning", Category: "Data", Price: 79.99, Rating: 4.8, StudentCount: 5100,
					Description: "From notebook to deployed model."},
				{ID: 303, Title: "SQL for Analysts", Category: "Data", Price: 24.99, Rating: 4.7, StudentCount: 2400,
					Description: "Window functions, CTEs and query plans."},
			},
		},
		{
			ID: 4, Name: "Tomás Herrera", Avatar: "/avatars/tomas.png", Rating: 4.4, StudentCount: 3100,
			Bio: "Photographer and video editor.",
			Courses: []models.Course{
				{ID: 401, Title: "Mobile Photography", Category: "Photography", Price: 19.99, Rating: 4.4, StudentCount: 3100,
					Description: "Great photos with the phone you already own."},
			},
		},
	}
}
