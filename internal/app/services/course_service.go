package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	appauth "github.com/mertdogan/coursehub/internal/app/auth"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/repositories"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
	"github.com/mertdogan/coursehub/internal/pkg/filestorage"
)

// courseStore is the slice of the course repository this service needs.
// SoftDelete deactivates the course and every one of its batches in a
// single transaction; callers rely on that cascade.
type courseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	UpdateThumbnail(ctx context.Context, courseID int64, path string) error
	SetApproved(ctx context.Context, courseID int64, approved bool) error
	SoftDelete(ctx context.Context, courseID int64) error
	List(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, int64, error)
}

// courseBatchStore resolves a course's batches
type courseBatchStore interface {
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Batch, error)
}

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course, thumbnail *multipart.FileHeader) error
	GetCourseByID(ctx context.Context, courseID int64) (*models.Course, error)
	GetCourseWithBatches(ctx context.Context, courseID int64, scope appauth.Scope) (*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course, thumbnail *multipart.FileHeader) error
	ApproveCourse(ctx context.Context, courseID int64, approved bool) error
	DeleteCourse(ctx context.Context, courseID int64) error
	ListCourses(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, int64, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courses courseStore
	batches courseBatchStore
	storage filestorage.FileStorage
}

// NewCourseService creates a new course service instance
func NewCourseService(courses courseStore, batches courseBatchStore, storage filestorage.FileStorage) CourseService {
	return &courseServiceImpl{
		courses: courses,
		batches: batches,
		storage: storage,
	}
}

// validateCourse validates course fields
func (s *courseServiceImpl) validateCourse(course *models.Course) error {
	if strings.TrimSpace(course.Name) == "" {
		return fmt.Errorf("%w: course name cannot be empty", apperrors.ErrValidationFailed)
	}
	if course.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateCourse creates a new course, storing the thumbnail if one was
// uploaded. New courses await admin approval before students can see them.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course, thumbnail *multipart.FileHeader) error {
	if err := s.validateCourse(course); err != nil {
		return err
	}

	if thumbnail != nil {
		path, err := s.storage.SaveFileWithPath(thumbnail, "courses")
		if err != nil {
			return fmt.Errorf("error saving course thumbnail: %w", err)
		}
		course.Thumbnail = &path
	}

	return s.courses.Create(ctx, course)
}

// GetCourseByID retrieves a course without visibility filtering. Reserved
// for admin-gated paths; requester-facing reads go through
// GetCourseWithBatches.
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, courseID int64) (*models.Course, error) {
	return s.courses.GetByID(ctx, courseID)
}

// GetCourseWithBatches retrieves a course together with its batches. Courses
// outside the requester's scope come back as not found, matching what the
// list endpoint would show.
func (s *courseServiceImpl) GetCourseWithBatches(ctx context.Context, courseID int64, scope appauth.Scope) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := appauth.RequireCourseAccess(scope, course); err != nil {
		return nil, err
	}

	batches, err := s.batches.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	course.Batches = batches

	return course, nil
}

// UpdateCourse updates a course's editable fields
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, course *models.Course, thumbnail *multipart.FileHeader) error {
	if err := s.validateCourse(course); err != nil {
		return err
	}

	existing, err := s.courses.GetByID(ctx, course.ID)
	if err != nil {
		return err
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return err
	}

	if thumbnail != nil {
		path, err := s.storage.SaveFileWithPath(thumbnail, "courses")
		if err != nil {
			return fmt.Errorf("error saving course thumbnail: %w", err)
		}
		if err := s.courses.UpdateThumbnail(ctx, course.ID, path); err != nil {
			return err
		}
		if existing.Thumbnail != nil {
			_ = s.storage.DeleteFile(*existing.Thumbnail)
		}
		course.Thumbnail = &path
	}

	return nil
}

// ApproveCourse flips the approval flag
func (s *courseServiceImpl) ApproveCourse(ctx context.Context, courseID int64, approved bool) error {
	return s.courses.SetApproved(ctx, courseID, approved)
}

// DeleteCourse soft-deletes a course and all its batches atomically
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, courseID int64) error {
	return s.courses.SoftDelete(ctx, courseID)
}

// ListCourses retrieves a page of courses visible to the requester
func (s *courseServiceImpl) ListCourses(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, int64, error) {
	return s.courses.List(ctx, filter)
}
