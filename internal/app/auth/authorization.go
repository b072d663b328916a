package auth

import (
	"context"
	"fmt"

	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/repositories"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
)

// Membership is one (course, batch) pair a user belongs to
type Membership struct {
	CourseID int64
	BatchID  int64
}

// Scope is everything needed to decide what a user may see. It is resolved
// once per request and consulted as a pure value, so every video access
// check in the system goes through the same policy.
type Scope struct {
	UserID      int64
	Role        models.RoleType
	CourseIDs   map[int64]struct{} // Courses from user_courses
	Memberships []Membership       // Exact pairs from user_course_batches
}

// CanViewVideo decides whether the scope's user may see a video.
// Admins see everything. Default videos are visible to everyone. Scoped
// videos require course assignment for trainers (or being the uploader) and
// an exact course+batch membership for students.
func (s Scope) CanViewVideo(video *models.Video) bool {
	if video == nil {
		return false
	}
	if !video.IsActive && s.Role != models.RoleAdmin {
		return false
	}

	switch s.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTrainer:
		if video.IsDefault || video.UploadedBy == s.UserID {
			return true
		}
		if video.CourseID == nil {
			return false
		}
		_, assigned := s.CourseIDs[*video.CourseID]
		return assigned
	case models.RoleStudent:
		if video.IsDefault {
			return true
		}
		if video.CourseID == nil || video.BatchID == nil {
			return false
		}
		for _, m := range s.Memberships {
			if m.CourseID == *video.CourseID && m.BatchID == *video.BatchID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// CanModifyVideo decides whether the scope's user may update or delete a
// video: admins always, trainers only for their own uploads.
func (s Scope) CanModifyVideo(video *models.Video) bool {
	if video == nil {
		return false
	}
	switch s.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTrainer:
		return video.UploadedBy == s.UserID
	default:
		return false
	}
}

// CanViewCourse decides whether the scope's user may see a course.
// Admins see every course. Trainers see the public catalog plus the courses
// they are assigned to, even before approval. Everyone else sees only
// active approved courses.
func (s Scope) CanViewCourse(course *models.Course) bool {
	if course == nil {
		return false
	}

	switch s.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTrainer:
		if _, assigned := s.CourseIDs[course.ID]; assigned {
			return true
		}
		return course.IsActive && course.IsApproved
	default:
		return course.IsActive && course.IsApproved
	}
}

// ScopeResolver builds a Scope from the requester's stored assignments
type ScopeResolver struct {
	assignmentRepo *repositories.AssignmentRepository
}

// NewScopeResolver creates a new ScopeResolver
func NewScopeResolver(assignmentRepo *repositories.AssignmentRepository) *ScopeResolver {
	return &ScopeResolver{assignmentRepo: assignmentRepo}
}

// Resolve loads the user's course and batch memberships. Admin scopes skip
// the lookups since the role alone grants full visibility.
func (r *ScopeResolver) Resolve(ctx context.Context, userID int64, role models.RoleType) (Scope, error) {
	scope := Scope{
		UserID:    userID,
		Role:      role,
		CourseIDs: make(map[int64]struct{}),
	}

	if role == models.RoleAdmin {
		return scope, nil
	}

	courseAssignments, err := r.assignmentRepo.ListCourseAssignments(ctx, userID)
	if err != nil {
		return Scope{}, fmt.Errorf("failed to resolve course assignments: %w", err)
	}
	for _, uc := range courseAssignments {
		scope.CourseIDs[uc.CourseID] = struct{}{}
	}

	batchAssignments, err := r.assignmentRepo.ListBatchAssignments(ctx, userID)
	if err != nil {
		return Scope{}, fmt.Errorf("failed to resolve batch assignments: %w", err)
	}
	for _, ucb := range batchAssignments {
		scope.Memberships = append(scope.Memberships, Membership{
			CourseID: ucb.CourseID,
			BatchID:  ucb.BatchID,
		})
	}

	return scope, nil
}

// RequireVideoAccess returns ErrPermissionDenied unless the scope may view
// the video.
func RequireVideoAccess(scope Scope, video *models.Video) error {
	if !scope.CanViewVideo(video) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// RequireCourseAccess returns ErrCourseNotFound unless the scope may view
// the course. Hidden courses are indistinguishable from absent ones, so
// drafts cannot be probed by ID.
func RequireCourseAccess(scope Scope, course *models.Course) error {
	if !scope.CanViewCourse(course) {
		return apperrors.ErrCourseNotFound
	}
	return nil
}
