package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FollowKind tags what a follow record points at
type FollowKind string

const (
	FollowKindCreator FollowKind = "creator"
	FollowKindCourse  FollowKind = "course"
)

// ErrMalformedRecord is returned when a persisted follow record does not have the expected shape
var ErrMalformedRecord = errors.New("malformed follow record")

var recordValidator = validator.New()

// FollowKey identifies a follow record. It is comparable and used directly as a map key.
type FollowKey struct {
	Kind FollowKind
	ID   uint
}

// CreatorKey returns the key of the creator-level follow for creatorID
func CreatorKey(creatorID uint) FollowKey {
	return FollowKey{Kind: FollowKindCreator, ID: creatorID}
}

// CourseKey returns the key of the course-level follow for courseID
func CourseKey(courseID uint) FollowKey {
	return FollowKey{Kind: FollowKindCourse, ID: courseID}
}

// String renders the key in its persisted form, e.g. "creator-3" or "course-14"
func (k FollowKey) String() string {
	return string(k.Kind) + "-" + strconv.FormatUint(uint64(k.ID), 10)
}

// ParseFollowKey is the inverse of FollowKey.String
func ParseFollowKey(s string) (FollowKey, error) {
	kind, id, ok := strings.Cut(s, "-")
	if !ok {
		return FollowKey{}, fmt.Errorf("%w: bad id %q", ErrMalformedRecord, s)
	}
	switch FollowKind(kind) {
	case FollowKindCreator, FollowKindCourse:
	default:
		return FollowKey{}, fmt.Errorf("%w: unknown kind in id %q", ErrMalformedRecord, s)
	}
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil || n == 0 {
		return FollowKey{}, fmt.Errorf("%w: bad target in id %q", ErrMalformedRecord, s)
	}
	key := FollowKey{Kind: FollowKind(kind), ID: uint(n)}
	if key.String() != s {
		return FollowKey{}, fmt.Errorf("%w: non-canonical id %q", ErrMalformedRecord, s)
	}
	return key, nil
}

// FollowRecord is a single follow, either of a creator (and transitively all of
// their courses) or of one course. Display fields are denormalized copies taken
// at follow time and are never used to decide follow state.
type FollowRecord struct {
	Key              FollowKey
	SiblingCourseIDs []uint

	Name         string
	Bio          string
	Avatar       string
	Description  string
	CourseCount  int
	StudentCount int
}

// followRecordJSON is the persisted wire shape
type followRecordJSON struct {
	ID               string  `json:"id" validate:"required"`
	Kind             string  `json:"kind" validate:"required,oneof=creator course"`
	TargetID         uint    `json:"targetId" validate:"gt=0"`
	SiblingCourseIDs *[]uint `json:"siblingCourseIds,omitempty"`
	Name             string  `json:"name,omitempty"`
	Bio              string  `json:"bio,omitempty"`
	Avatar           string  `json:"avatar,omitempty"`
	Description      string  `json:"description,omitempty"`
	CourseCount      int     `json:"courseCount,omitempty"`
	StudentCount     int     `json:"studentCount,omitempty"`
}

func (r FollowRecord) MarshalJSON() ([]byte, error) {
	w := followRecordJSON{
		ID:           r.Key.String(),
		Kind:         string(r.Key.Kind),
		TargetID:     r.Key.ID,
		Name:         r.Name,
		Bio:          r.Bio,
		Avatar:       r.Avatar,
		Description:  r.Description,
		CourseCount:  r.CourseCount,
		StudentCount: r.StudentCount,
	}
	if r.Key.Kind == FollowKindCreator {
		siblings := r.SiblingCourseIDs
		if siblings == nil {
			siblings = []uint{}
		}
		// creator records always carry the array, even when empty
		w.SiblingCourseIDs = &siblings
	}
	return json.Marshal(w)
}

func (r *FollowRecord) UnmarshalJSON(data []byte) error {
	var w followRecordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if err := recordValidator.Struct(w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	key, err := ParseFollowKey(w.ID)
	if err != nil {
		return err
	}
	if key.Kind != FollowKind(w.Kind) || key.ID != w.TargetID {
		return fmt.Errorf("%w: id %q does not match kind %q and target %d", ErrMalformedRecord, w.ID, w.Kind, w.TargetID)
	}
	var siblings []uint
	if w.SiblingCourseIDs != nil {
		siblings = *w.SiblingCourseIDs
	}
	if key.Kind == FollowKindCourse && len(siblings) > 0 {
		return fmt.Errorf("%w: course record %q carries sibling courses", ErrMalformedRecord, w.ID)
	}
	for _, id := range siblings {
		if id == 0 {
			return fmt.Errorf("%w: creator record %q lists course 0", ErrMalformedRecord, w.ID)
		}
	}

	*r = FollowRecord{
		Key:              key,
		SiblingCourseIDs: siblings,
		Name:             w.Name,
		Bio:              w.Bio,
		Avatar:           w.Avatar,
		Description:      w.Description,
		CourseCount:      w.CourseCount,
		StudentCount:     w.StudentCount,
	}
	return nil
}

// NewCreatorRecord builds a creator-level follow from catalog data
func NewCreatorRecord(creator *Creator, courseIDs []uint) FollowRecord {
	siblings := make([]uint, len(courseIDs))
	copy(siblings, courseIDs)
	return FollowRecord{
		Key:              CreatorKey(creator.ID),
		SiblingCourseIDs: siblings,
		Name:             creator.Name,
		Bio:              creator.Bio,
		Avatar:           creator.Avatar,
		CourseCount:      len(siblings),
		StudentCount:     creator.StudentCount,
	}
}

// NewCourseRecord builds a course-level follow from catalog data
func NewCourseRecord(course *Course) FollowRecord {
	return FollowRecord{
		Key:          CourseKey(course.ID),
		Name:         course.Title,
		Description:  course.Description,
		Avatar:       course.Thumbnail,
		StudentCount: course.StudentCount,
	}
}
