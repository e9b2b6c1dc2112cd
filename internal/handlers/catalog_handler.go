package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/skillshare/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves read-only creator and course listings
type CatalogHandler struct {
	catalogRepository repositories.CatalogRepository
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogRepo repositories.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalogRepository: catalogRepo}
}

// RegisterCatalogRoutes registers catalog routes
func (h *CatalogHandler) RegisterCatalogRoutes(g *echo.Group) {
	g.GET("/creators", h.GetCreators)
	g.GET("/creators/:id/courses", h.GetCreatorCourses)
	g.GET("/courses/:id", h.GetCourse)
}

// GetCreators lists all creators
func (h *CatalogHandler) GetCreators(c echo.Context) error {
	creators, err := h.catalogRepository.GetCreators(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": creators})
}

// GetCreatorCourses lists the courses of one creator
func (h *CatalogHandler) GetCreatorCourses(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	courses, err := h.catalogRepository.GetCoursesByCreator(c.Request().Context(), id)
	if err != nil {
		return lookupError(err, "Creator not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": courses})
}

// GetCourse returns a single course
func (h *CatalogHandler) GetCourse(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	course, err := h.catalogRepository.GetCourseByID(c.Request().Context(), id)
	if err != nil {
		return lookupError(err, "Course not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": course})
}

func lookupError(err error, notFound string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
