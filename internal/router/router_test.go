package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/skillshare/backend/pkg/config"
	"github.com/anonto42/skillshare/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newServer(t *testing.T, cfg *config.Config) (*echo.Echo, *prometheus.Registry) {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()
	reg := prometheus.NewRegistry()
	err := SetupRoutes(context.Background(), e, Deps{
		Config:   cfg,
		DB:       &config.DB{},
		Logger:   zap.NewNop(),
		Registry: reg,
	})
	require.NoError(t, err)
	return e, reg
}

func TestSetupRoutes_FirstRunFollowsEveryCreator(t *testing.T) {
	e, reg := newServer(t, &config.Config{CatalogSource: "static", FollowStoreBackend: config.BackendMemory, FollowsKey: "followedItems"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/102/follow", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"course_id":102,"following":true,"via_creator":true}}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "follows_records")
	assert.Contains(t, names, "follows_load_fallbacks_total")
}

func TestSetupRoutes_RejectsUnknownBackends(t *testing.T) {
	e := echo.New()
	err := SetupRoutes(context.Background(), e, Deps{
		Config:   &config.Config{CatalogSource: "static", FollowStoreBackend: "etcd"},
		DB:       &config.DB{},
		Logger:   zap.NewNop(),
		Registry: prometheus.NewRegistry(),
	})
	assert.ErrorContains(t, err, `unknown follow store backend "etcd"`)

	err = SetupRoutes(context.Background(), e, Deps{
		Config:   &config.Config{CatalogSource: "csv", FollowStoreBackend: config.BackendMemory},
		DB:       &config.DB{},
		Logger:   zap.NewNop(),
		Registry: prometheus.NewRegistry(),
	})
	assert.ErrorContains(t, err, `unknown catalog source "csv"`)

	err = SetupRoutes(context.Background(), e, Deps{
		Config:   &config.Config{CatalogSource: "static", FollowStoreBackend: config.BackendFirestore},
		DB:       &config.DB{},
		Logger:   zap.NewNop(),
		Registry: prometheus.NewRegistry(),
	})
	assert.Error(t, err)
}
