package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
	"github.com/mertdogan/coursehub/internal/pkg/email"
)

// enrollmentStore is the slice of the enrollment repository this service
// needs. Kept narrow so tests can substitute a fake.
type enrollmentStore interface {
	Create(ctx context.Context, request *models.EnrollmentRequest) error
	GetByID(ctx context.Context, id int64) (*models.EnrollmentRequest, error)
	List(ctx context.Context, status models.RequestStatus, offset, limit int) ([]*models.EnrollmentRequest, int64, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.EnrollmentRequest, error)
	Approve(ctx context.Context, requestID, batchID int64) error
	Reject(ctx context.Context, requestID int64) error
}

// enrollmentCourseStore resolves courses for request validation
type enrollmentCourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// enrollmentBatchStore resolves batches for request validation
type enrollmentBatchStore interface {
	GetByID(ctx context.Context, id int64) (*models.Batch, error)
}

// enrollmentUserStore resolves admin recipients and assignment targets
type enrollmentUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetAdminEmails(ctx context.Context) ([]string, error)
}

// assignmentStore covers direct admin assignments
type assignmentStore interface {
	AssignCourse(ctx context.Context, userID, courseID int64, role models.CourseRole) error
	AssignBatch(ctx context.Context, userID, courseID, batchID int64) error
}

// EnrollmentService defines the interface for enrollment workflow operations
type EnrollmentService interface {
	CreateRequest(ctx context.Context, studentID int64, courseID int64, batchID *int64) (*models.EnrollmentRequest, error)
	ListRequests(ctx context.Context, status models.RequestStatus, offset, limit int) ([]*models.EnrollmentRequest, int64, error)
	ListMyRequests(ctx context.Context, studentID int64) ([]*models.EnrollmentRequest, error)
	ApproveRequest(ctx context.Context, requestID, batchID int64) (*models.EnrollmentRequest, error)
	RejectRequest(ctx context.Context, requestID int64) (*models.EnrollmentRequest, error)
	AssignStudent(ctx context.Context, userID, courseID, batchID int64) error
	AssignTrainer(ctx context.Context, userID, courseID, batchID int64) error
}

// enrollmentServiceImpl implements the EnrollmentService interface
type enrollmentServiceImpl struct {
	enrollments enrollmentStore
	courses     enrollmentCourseStore
	batches     enrollmentBatchStore
	users       enrollmentUserStore
	assignments assignmentStore
	email       email.EmailService
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(
	enrollments enrollmentStore,
	courses enrollmentCourseStore,
	batches enrollmentBatchStore,
	users enrollmentUserStore,
	assignments assignmentStore,
	emailService email.EmailService,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollments: enrollments,
		courses:     courses,
		batches:     batches,
		users:       users,
		assignments: assignments,
		email:       emailService,
		logger:      logger,
	}
}

// validateTarget checks that the course is open for enrollment and that an
// optionally requested batch belongs to it and is active.
func (s *enrollmentServiceImpl) validateTarget(ctx context.Context, courseID int64, batchID *int64) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if !course.IsActive {
		return apperrors.ErrCourseInactive
	}
	if !course.IsApproved {
		return apperrors.ErrCourseInactive
	}

	if batchID != nil {
		batch, err := s.batches.GetByID(ctx, *batchID)
		if err != nil {
			return err
		}
		if batch.CourseID != courseID {
			return apperrors.ErrBatchCourseMismatch
		}
		if !batch.IsActive {
			return apperrors.ErrBatchInactive
		}
	}

	return nil
}

// CreateRequest files a new enrollment request for a student and notifies
// the admins by email.
func (s *enrollmentServiceImpl) CreateRequest(ctx context.Context, studentID int64, courseID int64, batchID *int64) (*models.EnrollmentRequest, error) {
	if err := s.validateTarget(ctx, courseID, batchID); err != nil {
		return nil, err
	}

	request := &models.EnrollmentRequest{
		StudentID: studentID,
		CourseID:  courseID,
		BatchID:   batchID,
	}

	if err := s.enrollments.Create(ctx, request); err != nil {
		return nil, err
	}

	// Notification failures don't fail the request; the admin list view
	// still shows it
	go s.notifyAdmins(request)

	return s.enrollments.GetByID(ctx, request.ID)
}

func (s *enrollmentServiceImpl) notifyAdmins(request *models.EnrollmentRequest) {
	ctx := context.Background()

	adminEmails, err := s.users.GetAdminEmails(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load admin emails for enrollment notification")
		return
	}

	student, err := s.users.GetByID(ctx, request.StudentID)
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", request.StudentID).Msg("Failed to load student for enrollment notification")
		return
	}
	course, err := s.courses.GetByID(ctx, request.CourseID)
	if err != nil {
		s.logger.Error().Err(err).Int64("courseID", request.CourseID).Msg("Failed to load course for enrollment notification")
		return
	}

	if err := s.email.SendEnrollmentRequestNotification(adminEmails, student.Name, course.Name, request.ID); err != nil {
		s.logger.Error().Err(err).Int64("requestID", request.ID).Msg("Failed to send enrollment notification")
	}
}

// ListRequests retrieves a page of requests, optionally filtered by status
func (s *enrollmentServiceImpl) ListRequests(ctx context.Context, status models.RequestStatus, offset, limit int) ([]*models.EnrollmentRequest, int64, error) {
	return s.enrollments.List(ctx, status, offset, limit)
}

// ListMyRequests retrieves a student's own requests
func (s *enrollmentServiceImpl) ListMyRequests(ctx context.Context, studentID int64) ([]*models.EnrollmentRequest, error) {
	return s.enrollments.ListByStudent(ctx, studentID)
}

// ApproveRequest approves a pending request, enrolling the student in the
// given batch, and emails the student the decision.
func (s *enrollmentServiceImpl) ApproveRequest(ctx context.Context, requestID, batchID int64) (*models.EnrollmentRequest, error) {
	if err := s.enrollments.Approve(ctx, requestID, batchID); err != nil {
		return nil, err
	}

	request, err := s.enrollments.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	go s.notifyDecision(request, true)

	return request, nil
}

// RejectRequest rejects a pending request and emails the student
func (s *enrollmentServiceImpl) RejectRequest(ctx context.Context, requestID int64) (*models.EnrollmentRequest, error) {
	if err := s.enrollments.Reject(ctx, requestID); err != nil {
		return nil, err
	}

	request, err := s.enrollments.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	go s.notifyDecision(request, false)

	return request, nil
}

func (s *enrollmentServiceImpl) notifyDecision(request *models.EnrollmentRequest, approved bool) {
	if err := s.email.SendEnrollmentDecision(request.StudentEmail, request.StudentName, request.CourseName, approved); err != nil {
		s.logger.Error().Err(err).Int64("requestID", request.ID).Msg("Failed to send enrollment decision email")
	}
}

// AssignStudent enrolls a user directly without an enrollment request.
// Existing mappings are no-ops.
func (s *enrollmentServiceImpl) AssignStudent(ctx context.Context, userID, courseID, batchID int64) error {
	return s.assign(ctx, userID, courseID, batchID, models.CourseRoleStudent)
}

// AssignTrainer attaches a trainer to a course and batch directly
func (s *enrollmentServiceImpl) AssignTrainer(ctx context.Context, userID, courseID, batchID int64) error {
	return s.assign(ctx, userID, courseID, batchID, models.CourseRoleTrainer)
}

func (s *enrollmentServiceImpl) assign(ctx context.Context, userID, courseID, batchID int64, role models.CourseRole) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if role == models.CourseRoleTrainer && user.Role != models.RoleTrainer {
		return apperrors.ErrRoleNotPermitted
	}
	if role == models.CourseRoleStudent && user.Role != models.RoleStudent {
		return apperrors.ErrRoleNotPermitted
	}

	batch, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.CourseID != courseID {
		return apperrors.ErrBatchCourseMismatch
	}
	if !batch.IsActive {
		return apperrors.ErrBatchInactive
	}

	if err := s.assignments.AssignCourse(ctx, userID, courseID, role); err != nil {
		return err
	}
	if err := s.assignments.AssignBatch(ctx, userID, courseID, batchID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("userID", userID).
		Int64("courseID", courseID).
		Int64("batchID", batchID).
		Str("role", string(role)).
		Msg("User assigned directly")

	return nil
}
