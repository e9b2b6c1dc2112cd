package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/skillshare/backend/internal/follows"
	"github.com/anonto42/skillshare/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow toggles and follow-state lookups
type FollowHandler struct {
	store      *follows.Store
	reconciler *follows.Reconciler
	query      *follows.Query
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(store *follows.Store, reconciler *follows.Reconciler, query *follows.Query) *FollowHandler {
	return &FollowHandler{
		store:      store,
		reconciler: reconciler,
		query:      query,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.GET("/follows", h.ListFollows)
	g.GET("/creators/:id/follow", h.GetCreatorFollowState)
	g.POST("/creators/:id/follow", h.ToggleCreatorFollow)
	g.GET("/courses/:id/follow", h.GetCourseFollowState)
	g.POST("/courses/:id/follow", h.ToggleCourseFollow)
}

type idParam struct {
	ID uint `param:"id" validate:"required,gt=0"`
}

func bindID(c echo.Context) (uint, error) {
	var p idParam
	// path only; a request body must not override the id in the URL
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &p); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	if err := c.Validate(&p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

type creatorFollowState struct {
	CreatorID         uint   `json:"creator_id"`
	Following         bool   `json:"following"`
	AnyCourseFollowed bool   `json:"any_course_followed"`
	Outcome           string `json:"outcome,omitempty"`
}

type courseFollowState struct {
	CourseID   uint   `json:"course_id"`
	Following  bool   `json:"following"`
	ViaCreator bool   `json:"via_creator"`
	Outcome    string `json:"outcome,omitempty"`
}

// ListFollows returns every record in the current follow set
func (h *FollowHandler) ListFollows(c echo.Context) error {
	records := h.store.Current().Records()
	if records == nil {
		records = []models.FollowRecord{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": records})
}

// GetCreatorFollowState reports whether a creator, or any of their courses, is followed
func (h *FollowHandler) GetCreatorFollowState(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.creatorState(c, id, "")})
}

// ToggleCreatorFollow follows or unfollows a creator together with all of their courses
func (h *FollowHandler) ToggleCreatorFollow(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}

	outcome, err := h.reconciler.FollowCreator(c.Request().Context(), id)
	if err != nil {
		return toggleError(err, "Creator not found")
	}
	if outcome == follows.Dropped {
		return echo.NewHTTPError(http.StatusConflict, "Another follow update is in progress")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.creatorState(c, id, outcome.String())})
}

// GetCourseFollowState reports whether a course is followed and whether that comes from its creator
func (h *FollowHandler) GetCourseFollowState(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.courseState(c, id, "")})
}

// ToggleCourseFollow follows or unfollows a single course
func (h *FollowHandler) ToggleCourseFollow(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}

	outcome, err := h.reconciler.FollowCourse(c.Request().Context(), id)
	if err != nil {
		return toggleError(err, "Course not found")
	}
	if outcome == follows.Dropped {
		return echo.NewHTTPError(http.StatusConflict, "Another follow update is in progress")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.courseState(c, id, outcome.String())})
}

func (h *FollowHandler) creatorState(c echo.Context, id uint, outcome string) creatorFollowState {
	ctx := c.Request().Context()
	return creatorFollowState{
		CreatorID:         id,
		Following:         h.query.IsCreatorFollowed(ctx, id),
		AnyCourseFollowed: h.query.HasAnyCreatorCourseFollowed(ctx, id),
		Outcome:           outcome,
	}
}

func (h *FollowHandler) courseState(c echo.Context, id uint, outcome string) courseFollowState {
	ctx := c.Request().Context()
	return courseFollowState{
		CourseID:   id,
		Following:  h.query.IsCourseFollowed(ctx, id),
		ViaCreator: h.query.IsCourseFollowedViaCreator(ctx, id),
		Outcome:    outcome,
	}
}

func toggleError(err error, notFound string) error {
	if errors.Is(err, follows.ErrInvalidReference) {
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
