package follows

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/anonto42/skillshare/backend/internal/models"
	"github.com/anonto42/skillshare/backend/internal/repositories"
	"go.uber.org/zap"
)

// DefaultKey is the key the follow set is persisted under
const DefaultKey = "followedItems"

// Store owns the live follow set and its load/save boundary
type Store struct {
	kv      repositories.KeyValueRepository
	catalog repositories.CatalogRepository
	logger  *zap.Logger
	metrics *Metrics
	key     string

	current atomic.Pointer[FollowSet]
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithKey overrides the persistence key
func WithKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithMetrics attaches Prometheus collectors
func WithMetrics(m *Metrics) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// NewStore creates a Store holding an empty set until Load is called
func NewStore(kv repositories.KeyValueRepository, catalog repositories.CatalogRepository, logger *zap.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		kv:      kv,
		catalog: catalog,
		logger:  logger.Named("follows.store"),
		key:     DefaultKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	empty := NewFollowSet()
	s.current.Store(&empty)
	return s
}

// Key returns the persistence key in use
func (s *Store) Key() string {
	return s.key
}

// Current returns the live snapshot. The set is immutable; new snapshots come only from Save.
func (s *Store) Current() FollowSet {
	return *s.current.Load()
}

// Load reads the persisted set and makes it current. Absent or malformed data is
// replaced by the default set, which is persisted right away. A backend read error
// also yields the default set but leaves storage untouched.
func (s *Store) Load(ctx context.Context) FollowSet {
	data, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, repositories.ErrKeyNotFound):
		s.logger.Info("no persisted follows, using default set", zap.String("key", s.key))
		s.metrics.observeLoadFallback("absent")
		return s.fallback(ctx, true)
	case err != nil:
		s.logger.Error("failed to read persisted follows, using default set", zap.String("key", s.key), zap.Error(err))
		s.metrics.observeLoadFallback("read_error")
		return s.fallback(ctx, false)
	}

	var set FollowSet
	if err := json.Unmarshal(data, &set); err != nil {
		s.logger.Warn("persisted follows are malformed, using default set", zap.String("key", s.key), zap.Error(err))
		s.metrics.observeLoadFallback("malformed")
		return s.fallback(ctx, true)
	}
	s.publish(set)
	s.logger.Info("follows loaded", zap.Int("records", set.Len()))
	return set
}

func (s *Store) fallback(ctx context.Context, persist bool) FollowSet {
	set := s.defaultSet(ctx)
	if persist {
		s.Save(ctx, set)
	} else {
		s.publish(set)
	}
	return set
}

// defaultSet follows every known creator so a first-run user starts with populated follows
func (s *Store) defaultSet(ctx context.Context) FollowSet {
	ids, err := s.catalog.GetCreatorIDs(ctx)
	if err != nil {
		s.logger.Error("failed to list creators for default follows", zap.Error(err))
		return NewFollowSet()
	}
	records := make([]models.FollowRecord, 0, len(ids))
	for _, id := range ids {
		creator, err := s.catalog.GetCreatorByID(ctx, id)
		if err != nil {
			s.logger.Warn("skipping creator in default follows", zap.Uint("creator_id", id), zap.Error(err))
			continue
		}
		courseIDs, err := s.catalog.GetCourseIDsByCreator(ctx, id)
		if err != nil {
			s.logger.Warn("skipping creator in default follows", zap.Uint("creator_id", id), zap.Error(err))
			continue
		}
		records = append(records, models.NewCreatorRecord(creator, courseIDs))
	}
	return NewFollowSet(records...)
}

// Save makes set current and writes it in full. Write failures are logged and
// never returned; the in-memory set stays authoritative. After a failed write an
// empty set is written as a best effort so the next load still parses.
func (s *Store) Save(ctx context.Context, set FollowSet) {
	s.publish(set)

	data, err := json.Marshal(set)
	if err == nil {
		err = s.kv.Set(ctx, s.key, data)
	}
	if err == nil {
		return
	}

	s.metrics.observePersistFailure()
	s.logger.Error("failed to persist follows", zap.String("key", s.key), zap.Int("records", set.Len()), zap.Error(err))
	if ferr := s.kv.Set(ctx, s.key, []byte("[]")); ferr != nil {
		s.logger.Error("failed to persist empty follows fallback", zap.String("key", s.key), zap.Error(ferr))
	}
}

func (s *Store) publish(set FollowSet) {
	s.current.Store(&set)
	s.metrics.observeSet(set)
}
