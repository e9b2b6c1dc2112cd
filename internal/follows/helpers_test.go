package follows

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/anonto42/skillshare/backend/internal/models"
	"github.com/anonto42/skillshare/backend/internal/repositories"
	"go.uber.org/zap"
)

func testCatalog() *repositories.StaticCatalogRepository {
	return repositories.NewStaticCatalogRepository([]models.Creator{
		{ID: 3, Name: "Three", Courses: []models.Course{{ID: 10, Title: "Ten"}, {ID: 11, Title: "Eleven"}, {ID: 12, Title: "Twelve"}}},
		{ID: 7, Name: "Seven", Courses: []models.Course{{ID: 20, Title: "Twenty"}, {ID: 21, Title: "Twenty-one"}}},
		{ID: 9, Name: "Nine", Courses: []models.Course{{ID: 30, Title: "Thirty"}}},
	})
}

type fixture struct {
	kv      *repositories.MemoryKeyValueRepository
	catalog *repositories.StaticCatalogRepository
	store   *Store
	rec     *Reconciler
	query   *Query
}

// newFixture returns an engine whose store starts from an empty follow set
func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := repositories.NewMemoryKeyValueRepository()
	if err := kv.Set(context.Background(), DefaultKey, []byte("[]")); err != nil {
		t.Fatalf("seed kv: %v", err)
	}
	catalog := testCatalog()
	store := NewStore(kv, catalog, zap.NewNop())
	store.Load(context.Background())
	return &fixture{
		kv:      kv,
		catalog: catalog,
		store:   store,
		rec:     NewReconciler(store, catalog, zap.NewNop(), nil),
		query:   NewQuery(store, catalog),
	}
}

func (f *fixture) followCreator(t *testing.T, id uint) Outcome {
	t.Helper()
	out, err := f.rec.FollowCreator(context.Background(), id)
	if err != nil {
		t.Fatalf("FollowCreator(%d): %v", id, err)
	}
	return out
}

func (f *fixture) followCourse(t *testing.T, id uint) Outcome {
	t.Helper()
	out, err := f.rec.FollowCourse(context.Background(), id)
	if err != nil {
		t.Fatalf("FollowCourse(%d): %v", id, err)
	}
	return out
}

// failingKV fails every write and optionally every read
type failingKV struct {
	mu        sync.Mutex
	failGet   bool
	setCalls  [][]byte
	getResult []byte
}

var errStorageUnavailable = errors.New("storage unavailable")

func (f *failingKV) Get(_ context.Context, _ string) ([]byte, error) {
	if f.failGet {
		return nil, errStorageUnavailable
	}
	if f.getResult == nil {
		return nil, repositories.ErrKeyNotFound
	}
	return f.getResult, nil
}

func (f *failingKV) Set(_ context.Context, _ string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls = append(f.setCalls, value)
	return errStorageUnavailable
}
