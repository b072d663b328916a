package services

import (
	"context"
	"fmt"
	"strings"

	appauth "github.com/mertdogan/coursehub/internal/app/auth"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
)

// batchStore is the slice of the batch repository this service needs
type batchStore interface {
	Create(ctx context.Context, batch *models.Batch) error
	GetByID(ctx context.Context, id int64) (*models.Batch, error)
	Update(ctx context.Context, batch *models.Batch) error
	SoftDelete(ctx context.Context, batchID int64) error
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Batch, error)
}

// batchCourseStore resolves the owning course for visibility checks
type batchCourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// BatchService defines the interface for batch operations
type BatchService interface {
	CreateBatch(ctx context.Context, batch *models.Batch) error
	GetBatchByID(ctx context.Context, batchID int64, scope appauth.Scope) (*models.Batch, error)
	UpdateBatch(ctx context.Context, batch *models.Batch) error
	DeleteBatch(ctx context.Context, batchID int64) error
	ListBatchesByCourse(ctx context.Context, courseID int64, scope appauth.Scope) ([]*models.Batch, error)
}

// batchServiceImpl implements the BatchService interface
type batchServiceImpl struct {
	batches batchStore
	courses batchCourseStore
}

// NewBatchService creates a new batch service instance
func NewBatchService(batches batchStore, courses batchCourseStore) BatchService {
	return &batchServiceImpl{
		batches: batches,
		courses: courses,
	}
}

// validateBatch validates batch fields
func (s *batchServiceImpl) validateBatch(batch *models.Batch) error {
	if strings.TrimSpace(batch.Title) == "" {
		return fmt.Errorf("%w: batch title cannot be empty", apperrors.ErrValidationFailed)
	}
	if !batch.EndDate.After(batch.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateBatch creates a batch under an existing active course. The course
// binding is permanent.
func (s *batchServiceImpl) CreateBatch(ctx context.Context, batch *models.Batch) error {
	if err := s.validateBatch(batch); err != nil {
		return err
	}

	course, err := s.courses.GetByID(ctx, batch.CourseID)
	if err != nil {
		return err
	}
	if !course.IsActive {
		return apperrors.ErrCourseInactive
	}

	return s.batches.Create(ctx, batch)
}

// GetBatchByID retrieves a batch. Batches of courses outside the
// requester's scope come back as not found.
func (s *batchServiceImpl) GetBatchByID(ctx context.Context, batchID int64, scope appauth.Scope) (*models.Batch, error) {
	batch, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, batch.CourseID)
	if err != nil {
		return nil, err
	}
	if !scope.CanViewCourse(course) {
		return nil, apperrors.ErrBatchNotFound
	}

	return batch, nil
}

// UpdateBatch updates a batch's title and dates. The owning course never
// changes.
func (s *batchServiceImpl) UpdateBatch(ctx context.Context, batch *models.Batch) error {
	if err := s.validateBatch(batch); err != nil {
		return err
	}
	return s.batches.Update(ctx, batch)
}

// DeleteBatch soft-deletes a batch
func (s *batchServiceImpl) DeleteBatch(ctx context.Context, batchID int64) error {
	return s.batches.SoftDelete(ctx, batchID)
}

// ListBatchesByCourse retrieves the batches of a course the requester may
// see.
func (s *batchServiceImpl) ListBatchesByCourse(ctx context.Context, courseID int64, scope appauth.Scope) ([]*models.Batch, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := appauth.RequireCourseAccess(scope, course); err != nil {
		return nil, err
	}
	return s.batches.ListByCourse(ctx, courseID)
}
