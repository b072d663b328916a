package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/models/dto"
	"github.com/mertdogan/coursehub/internal/app/repositories"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
)

// AdminService defines the interface for admin operations
type AdminService interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
	ListUsers(ctx context.Context, role models.RoleType, search string, offset, limit int) ([]*models.User, int64, error)
	GetUserDetails(ctx context.Context, userID int64, role models.RoleType) (*models.User, []*models.UserCourse, []*models.UserCourseBatch, error)
	SetUserStatus(ctx context.Context, userID int64, isActive bool) error
	RemoveUserCourse(ctx context.Context, userID, courseID int64) error
	RemoveUserBatch(ctx context.Context, userID, batchID int64) error
	ReassignUser(ctx context.Context, userID int64, plan repositories.ReassignmentPlan) error
}

// adminServiceImpl implements the AdminService interface
type adminServiceImpl struct {
	userRepo       *repositories.UserRepository
	courseRepo     *repositories.CourseRepository
	batchRepo      *repositories.BatchRepository
	videoRepo      *repositories.VideoRepository
	enrollmentRepo *repositories.EnrollmentRepository
	assignmentRepo *repositories.AssignmentRepository
	logger         zerolog.Logger
}

// NewAdminService creates a new admin service instance
func NewAdminService(
	userRepo *repositories.UserRepository,
	courseRepo *repositories.CourseRepository,
	batchRepo *repositories.BatchRepository,
	videoRepo *repositories.VideoRepository,
	enrollmentRepo *repositories.EnrollmentRepository,
	assignmentRepo *repositories.AssignmentRepository,
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		batchRepo:      batchRepo,
		videoRepo:      videoRepo,
		enrollmentRepo: enrollmentRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// GetDashboard collects the aggregate counts shown on the admin dashboard
func (s *adminServiceImpl) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	students, err := s.userRepo.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	trainers, err := s.userRepo.CountByRole(ctx, models.RoleTrainer)
	if err != nil {
		return nil, err
	}
	courses, err := s.courseRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	batches, err := s.batchRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	videos, err := s.videoRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.enrollmentRepo.CountByStatus(ctx, models.RequestPending)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Students:        students,
		Trainers:        trainers,
		Courses:         courses,
		Batches:         batches,
		Videos:          videos,
		PendingRequests: pending,
	}, nil
}

// ListUsers retrieves a page of users with the given role
func (s *adminServiceImpl) ListUsers(ctx context.Context, role models.RoleType, search string, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.ListByRole(ctx, role, search, offset, limit)
}

// GetUserDetails retrieves a user of the expected role together with their
// course and batch assignments.
func (s *adminServiceImpl) GetUserDetails(ctx context.Context, userID int64, role models.RoleType) (*models.User, []*models.UserCourse, []*models.UserCourseBatch, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	if role != "" && user.Role != role {
		return nil, nil, nil, apperrors.ErrUserNotFound
	}

	courses, err := s.assignmentRepo.ListCourseAssignments(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	batches, err := s.assignmentRepo.ListBatchAssignments(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	return user, courses, batches, nil
}

// SetUserStatus toggles the soft-delete flag on a user
func (s *adminServiceImpl) SetUserStatus(ctx context.Context, userID int64, isActive bool) error {
	if err := s.userRepo.SetActive(ctx, userID, isActive); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Bool("isActive", isActive).Msg("User status updated")
	return nil
}

// RemoveUserCourse removes a user's course mapping and its batch rows
func (s *adminServiceImpl) RemoveUserCourse(ctx context.Context, userID, courseID int64) error {
	return s.assignmentRepo.RemoveCourseAssignment(ctx, userID, courseID)
}

// RemoveUserBatch removes one of a user's batch mappings
func (s *adminServiceImpl) RemoveUserBatch(ctx context.Context, userID, batchID int64) error {
	return s.assignmentRepo.RemoveBatchAssignment(ctx, userID, batchID)
}

// ReassignUser moves a user between courses and/or batches atomically
func (s *adminServiceImpl) ReassignUser(ctx context.Context, userID int64, plan repositories.ReassignmentPlan) error {
	if plan.OldCourseID == nil && plan.OldBatchID == nil && plan.NewCourseID == nil && plan.NewBatchID == nil {
		return apperrors.NewBadRequestError("reassignment requires at least one course or batch change")
	}
	return s.assignmentRepo.Reassign(ctx, userID, plan)
}
