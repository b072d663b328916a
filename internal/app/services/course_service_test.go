package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/mertdogan/coursehub/internal/app/auth"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/repositories"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
)

// fakeCourseCatalog backs the course service with in-memory courses and
// batches. SoftDelete honors the store contract: the course and every one
// of its batches are deactivated together.
type fakeCourseCatalog struct {
	mu      sync.Mutex
	nextID  int64
	courses map[int64]*models.Course
	batches map[int64]*models.Batch
}

func newFakeCourseCatalog() *fakeCourseCatalog {
	return &fakeCourseCatalog{
		nextID:  1000,
		courses: make(map[int64]*models.Course),
		batches: make(map[int64]*models.Batch),
	}
}

func (f *fakeCourseCatalog) Create(_ context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	course.ID = f.nextID
	stored := *course
	f.courses[course.ID] = &stored
	return nil
}

func (f *fakeCourseCatalog) GetByID(_ context.Context, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}

func (f *fakeCourseCatalog) Update(_ context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	existing.Name = course.Name
	existing.Description = course.Description
	existing.Level = course.Level
	existing.Category = course.Category
	existing.Price = course.Price
	return nil
}

func (f *fakeCourseCatalog) UpdateThumbnail(_ context.Context, courseID int64, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	course.Thumbnail = &path
	return nil
}

func (f *fakeCourseCatalog) SetApproved(_ context.Context, courseID int64, approved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	course.IsApproved = approved
	return nil
}

func (f *fakeCourseCatalog) SoftDelete(_ context.Context, courseID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	course.IsActive = false
	for _, batch := range f.batches {
		if batch.CourseID == courseID {
			batch.IsActive = false
		}
	}
	return nil
}

func (f *fakeCourseCatalog) List(_ context.Context, _ repositories.CourseFilter) ([]*models.Course, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Course, 0, len(f.courses))
	for _, course := range f.courses {
		copied := *course
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCourseCatalog) ListByCourse(_ context.Context, courseID int64) ([]*models.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Batch
	for _, batch := range f.batches {
		if batch.CourseID == courseID {
			copied := *batch
			out = append(out, &copied)
		}
	}
	return out, nil
}

func courseCatalogFixture() *fakeCourseCatalog {
	cat := newFakeCourseCatalog()
	cat.courses[10] = &models.Course{ID: 10, Name: "Published", IsActive: true, IsApproved: true}
	cat.courses[11] = &models.Course{ID: 11, Name: "Draft", IsActive: true, IsApproved: false}
	cat.courses[20] = &models.Course{ID: 20, Name: "Other", IsActive: true, IsApproved: true}
	cat.batches[100] = &models.Batch{ID: 100, Title: "Cohort A", CourseID: 10, IsActive: true}
	cat.batches[101] = &models.Batch{ID: 101, Title: "Cohort B", CourseID: 10, IsActive: true}
	cat.batches[200] = &models.Batch{ID: 200, Title: "Cohort C", CourseID: 20, IsActive: true}
	return cat
}

func TestDeleteCourseCascadesToBatches(t *testing.T) {
	cat := courseCatalogFixture()
	svc := NewCourseService(cat, cat, nil)

	require.NoError(t, svc.DeleteCourse(context.Background(), 10))

	assert.False(t, cat.courses[10].IsActive)
	assert.False(t, cat.batches[100].IsActive)
	assert.False(t, cat.batches[101].IsActive)
	assert.True(t, cat.courses[20].IsActive, "unrelated course untouched")
	assert.True(t, cat.batches[200].IsActive, "unrelated batch untouched")
}

func TestGetCourseWithBatchesVisibility(t *testing.T) {
	cat := courseCatalogFixture()
	svc := NewCourseService(cat, cat, nil)
	ctx := context.Background()

	adminScope := appauth.Scope{UserID: 1, Role: models.RoleAdmin, CourseIDs: map[int64]struct{}{}}
	trainerScope := appauth.Scope{UserID: 2, Role: models.RoleTrainer, CourseIDs: map[int64]struct{}{11: {}}}
	studentScope := appauth.Scope{UserID: 3, Role: models.RoleStudent, CourseIDs: map[int64]struct{}{}}

	t.Run("student cannot fetch a draft by id", func(t *testing.T) {
		_, err := svc.GetCourseWithBatches(ctx, 11, studentScope)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("student sees a published course with its batches", func(t *testing.T) {
		course, err := svc.GetCourseWithBatches(ctx, 10, studentScope)
		require.NoError(t, err)
		assert.Len(t, course.Batches, 2)
	})

	t.Run("assigned trainer sees the draft", func(t *testing.T) {
		course, err := svc.GetCourseWithBatches(ctx, 11, trainerScope)
		require.NoError(t, err)
		assert.Equal(t, "Draft", course.Name)
	})

	t.Run("unassigned trainer cannot fetch the draft", func(t *testing.T) {
		unassigned := appauth.Scope{UserID: 4, Role: models.RoleTrainer, CourseIDs: map[int64]struct{}{}}
		_, err := svc.GetCourseWithBatches(ctx, 11, unassigned)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		_, err := svc.GetCourseWithBatches(ctx, 11, adminScope)
		assert.NoError(t, err)
	})

	t.Run("missing course stays not found", func(t *testing.T) {
		_, err := svc.GetCourseWithBatches(ctx, 999, adminScope)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})
}

func TestCreateCourseValidation(t *testing.T) {
	cat := newFakeCourseCatalog()
	svc := NewCourseService(cat, cat, nil)
	ctx := context.Background()

	err := svc.CreateCourse(ctx, &models.Course{Name: "  "}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = svc.CreateCourse(ctx, &models.Course{Name: "Go Basics", Price: -1}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	course := &models.Course{Name: "Go Basics", Price: 10}
	require.NoError(t, svc.CreateCourse(ctx, course, nil))
	assert.NotZero(t, course.ID)
}
