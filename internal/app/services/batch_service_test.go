package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/mertdogan/coursehub/internal/app/auth"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
)

type fakeBatchRepo struct {
	mu      sync.Mutex
	nextID  int64
	batches map[int64]*models.Batch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{nextID: 2000, batches: make(map[int64]*models.Batch)}
}

func (f *fakeBatchRepo) Create(_ context.Context, batch *models.Batch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	batch.ID = f.nextID
	batch.IsActive = true
	stored := *batch
	f.batches[batch.ID] = &stored
	return nil
}

func (f *fakeBatchRepo) GetByID(_ context.Context, id int64) (*models.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch, ok := f.batches[id]
	if !ok {
		return nil, apperrors.ErrBatchNotFound
	}
	copied := *batch
	return &copied, nil
}

func (f *fakeBatchRepo) Update(_ context.Context, batch *models.Batch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.batches[batch.ID]
	if !ok {
		return apperrors.ErrBatchNotFound
	}
	existing.Title = batch.Title
	existing.StartDate = batch.StartDate
	existing.EndDate = batch.EndDate
	return nil
}

func (f *fakeBatchRepo) SoftDelete(_ context.Context, batchID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch, ok := f.batches[batchID]
	if !ok {
		return apperrors.ErrBatchNotFound
	}
	batch.IsActive = false
	return nil
}

func (f *fakeBatchRepo) ListByCourse(_ context.Context, courseID int64) ([]*models.Batch, error) {
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

func batchServiceFixture() (*fakeBatchRepo, *fakeCourseCatalog, BatchService) {
	batches := newFakeBatchRepo()
	courses := newFakeCourseCatalog()
	courses.courses[10] = &models.Course{ID: 10, Name: "Published", IsActive: true, IsApproved: true}
	courses.courses[11] = &models.Course{ID: 11, Name: "Draft", IsActive: true, IsApproved: false}
	courses.courses[12] = &models.Course{ID: 12, Name: "Retired", IsActive: false, IsApproved: true}
	batches.batches[100] = &models.Batch{ID: 100, Title: "Cohort A", CourseID: 10, IsActive: true}
	batches.batches[110] = &models.Batch{ID: 110, Title: "Draft Cohort", CourseID: 11, IsActive: true}
	return batches, courses, NewBatchService(batches, courses)
}

func TestCreateBatchGuards(t *testing.T) {
	_, _, svc := batchServiceFixture()
	ctx := context.Background()
	start := time.Now()
	end := start.Add(30 * 24 * time.Hour)

	t.Run("empty title", func(t *testing.T) {
		err := svc.CreateBatch(ctx, &models.Batch{CourseID: 10, StartDate: start, EndDate: end})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("end date not after start date", func(t *testing.T) {
		err := svc.CreateBatch(ctx, &models.Batch{Title: "Cohort", CourseID: 10, StartDate: start, EndDate: start})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("unknown course", func(t *testing.T) {
		err := svc.CreateBatch(ctx, &models.Batch{Title: "Cohort", CourseID: 999, StartDate: start, EndDate: end})
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("inactive course", func(t *testing.T) {
		err := svc.CreateBatch(ctx, &models.Batch{Title: "Cohort", CourseID: 12, StartDate: start, EndDate: end})
		assert.ErrorIs(t, err, apperrors.ErrCourseInactive)
	})

	t.Run("valid batch", func(t *testing.T) {
		batch := &models.Batch{Title: "Cohort", CourseID: 10, StartDate: start, EndDate: end}
		require.NoError(t, svc.CreateBatch(ctx, batch))
		assert.NotZero(t, batch.ID)
	})
}

func TestGetBatchByIDVisibility(t *testing.T) {
	_, _, svc := batchServiceFixture()
	ctx := context.Background()

	studentScope := appauth.Scope{UserID: 3, Role: models.RoleStudent, CourseIDs: map[int64]struct{}{}}
	adminScope := appauth.Scope{UserID: 1, Role: models.RoleAdmin, CourseIDs: map[int64]struct{}{}}

	t.Run("student cannot fetch a draft course's batch", func(t *testing.T) {
		_, err := svc.GetBatchByID(ctx, 110, studentScope)
		assert.ErrorIs(t, err, apperrors.ErrBatchNotFound)
	})

	t.Run("student sees a published course's batch", func(t *testing.T) {
		batch, err := svc.GetBatchByID(ctx, 100, studentScope)
		require.NoError(t, err)
		assert.Equal(t, "Cohort A", batch.Title)
	})

	t.Run("admin sees the draft course's batch", func(t *testing.T) {
		_, err := svc.GetBatchByID(ctx, 110, adminScope)
		assert.NoError(t, err)
	})
}

func TestListBatchesByCourseVisibility(t *testing.T) {
	_, _, svc := batchServiceFixture()
	ctx := context.Background()

	studentScope := appauth.Scope{UserID: 3, Role: models.RoleStudent, CourseIDs: map[int64]struct{}{}}

	_, err := svc.ListBatchesByCourse(ctx, 11, studentScope)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	batches, err := svc.ListBatchesByCourse(ctx, 10, studentScope)
	require.NoError(t, err)
	assert.Len(t, batches, 1)
}
