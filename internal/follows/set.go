package follows

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/anonto42/skillshare/backend/internal/models"
)

// FollowSet is an immutable set of follow records, unique by key.
// Operations that change membership return a new set.
type FollowSet struct {
	records map[models.FollowKey]models.FollowRecord
}

// NewFollowSet builds a set from records. A later record with the same key replaces an earlier one.
func NewFollowSet(records ...models.FollowRecord) FollowSet {
	s := FollowSet{records: make(map[models.FollowKey]models.FollowRecord, len(records))}
	for _, r := range records {
		s.records[r.Key] = r
	}
	return s
}

func (s FollowSet) Len() int {
	return len(s.records)
}

func (s FollowSet) Has(key models.FollowKey) bool {
	_, ok := s.records[key]
	return ok
}

func (s FollowSet) Get(key models.FollowKey) (models.FollowRecord, bool) {
	r, ok := s.records[key]
	return r, ok
}

// Records returns the records with creators first, then courses, each by ascending id
func (s FollowSet) Records() []models.FollowRecord {
	out := make([]models.FollowRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Kind != out[j].Key.Kind {
			return out[i].Key.Kind == models.FollowKindCreator
		}
		return out[i].Key.ID < out[j].Key.ID
	})
	return out
}

// Count returns how many records of the given kind are in the set
func (s FollowSet) Count(kind models.FollowKind) int {
	n := 0
	for k := range s.records {
		if k.Kind == kind {
			n++
		}
	}
	return n
}

// replace returns a copy of s without the keys in remove and with add inserted
func (s FollowSet) replace(remove []models.FollowKey, add ...models.FollowRecord) FollowSet {
	next := FollowSet{records: make(map[models.FollowKey]models.FollowRecord, len(s.records)+len(add))}
	for k, r := range s.records {
		next.records[k] = r
	}
	for _, k := range remove {
		delete(next.records, k)
	}
	for _, r := range add {
		next.records[r.Key] = r
	}
	return next
}

// Equal reports whether both sets have the same membership
func (s FollowSet) Equal(other FollowSet) bool {
	if len(s.records) != len(other.records) {
		return false
	}
	for k := range s.records {
		if _, ok := other.records[k]; !ok {
			return false
		}
	}
	return true
}

func (s FollowSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Records())
}

// UnmarshalJSON decodes the persisted array. Duplicate ids are rejected.
func (s *FollowSet) UnmarshalJSON(data []byte) error {
	var records []models.FollowRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	if records == nil {
		return fmt.Errorf("%w: expected an array", models.ErrMalformedRecord)
	}
	next := FollowSet{records: make(map[models.FollowKey]models.FollowRecord, len(records))}
	for _, r := range records {
		if _, dup := next.records[r.Key]; dup {
			return fmt.Errorf("%w: duplicate id %q", models.ErrMalformedRecord, r.Key)
		}
		next.records[r.Key] = r
	}
	*s = next
	return nil
}
