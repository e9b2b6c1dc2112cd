package router

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/anonto42/skillshare/backend/internal/follows"
	"github.com/anonto42/skillshare/backend/internal/handlers"
	"github.com/anonto42/skillshare/backend/internal/models"
	"github.com/anonto42/skillshare/backend/internal/repositories"
	"github.com/anonto42/skillshare/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Deps carries the connections and shared services routes are built from
type Deps struct {
	Config    *config.Config
	DB        *config.DB
	Firestore *firestore.Client
	Logger    *zap.Logger
	Registry  prometheus.Registerer
}

// SetupRoutes builds the repositories and follow engine, loads the persisted
// follows and registers all routes
func SetupRoutes(ctx context.Context, e *echo.Echo, deps Deps) error {
	logger := deps.Logger

	// --- Initialize Repositories ---
	catalogRepo, err := newCatalogRepository(ctx, deps)
	if err != nil {
		return err
	}
	kvRepo, err := newKeyValueRepository(deps)
	if err != nil {
		return err
	}
	logger.Info("Repositories configured.",
		zap.String("catalog", deps.Config.CatalogSource),
		zap.String("follow_store", deps.Config.FollowStoreBackend))

	// --- Follow engine ---
	metrics := follows.NewMetrics(deps.Registry)
	store := follows.NewStore(kvRepo, catalogRepo, logger, follows.WithKey(deps.Config.FollowsKey), follows.WithMetrics(metrics))
	store.Load(ctx)
	reconciler := follows.NewReconciler(store, catalogRepo, logger, metrics)
	query := follows.NewQuery(store, catalogRepo)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")

	catalogHandler := handlers.NewCatalogHandler(catalogRepo)
	catalogHandler.RegisterCatalogRoutes(api)
	logger.Info("Catalog routes configured.")

	followHandler := handlers.NewFollowHandler(store, reconciler, query)
	followHandler.RegisterFollowRoutes(api)
	logger.Info("Follow routes configured.")

	logger.Info("All routes configured.")
	return nil
}

func newCatalogRepository(ctx context.Context, deps Deps) (repositories.CatalogRepository, error) {
	switch deps.Config.CatalogSource {
	case "", "static":
		return repositories.NewStaticCatalogRepository(repositories.DefaultCatalog()), nil
	case config.BackendPostgres:
		if err := deps.DB.Postgres.AutoMigrate(&models.Creator{}, &models.Course{}); err != nil {
			return nil, fmt.Errorf("failed to auto migrate catalog models: %w", err)
		}
		repo := repositories.NewPostgresCatalogRepository(deps.DB.Postgres)
		if err := repo.Seed(ctx, repositories.DefaultCatalog()); err != nil {
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", deps.Config.CatalogSource)
	}
}

func newKeyValueRepository(deps Deps) (repositories.KeyValueRepository, error) {
	switch deps.Config.FollowStoreBackend {
	case config.BackendMemory:
		return repositories.NewMemoryKeyValueRepository(), nil
	case config.BackendSQLite:
		return repositories.NewSQLiteKeyValueRepository(deps.DB.SQLite)
	case config.BackendPostgres:
		if err := deps.DB.Postgres.AutoMigrate(&models.KVEntry{}); err != nil {
			return nil, fmt.Errorf("failed to auto migrate kv entries: %w", err)
		}
		return repositories.NewPostgresKeyValueRepository(deps.DB.Postgres), nil
	case config.BackendMongo:
		return repositories.NewMongoKeyValueRepository(deps.DB.Mongo.Database(deps.Config.MongoDatabase)), nil
	case config.BackendFirestore:
		if deps.Firestore == nil {
			return nil, fmt.Errorf("firestore backend selected but Firebase is not initialized")
		}
		return repositories.NewFirestoreKeyValueRepository(deps.Firestore), nil
	default:
		return nil, fmt.Errorf("unknown follow store backend %q", deps.Config.FollowStoreBackend)
	}
}
