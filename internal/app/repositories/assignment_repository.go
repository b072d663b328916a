package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/db"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
	"github.com/mertdogan/coursehub/internal/pkg/logger"
)

// ReassignmentPlan describes an admin moving a user between courses and/or
// batches. Nil fields mean "no change requested" on that side.
type ReassignmentPlan struct {
	OldCourseID *int64
	OldBatchID  *int64
	NewCourseID *int64
	NewBatchID  *int64
}

// AssignmentRepository handles user-course and user-course-batch mappings
type AssignmentRepository struct {
	db *db.PostgresDB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(database *db.PostgresDB) *AssignmentRepository {
	return &AssignmentRepository{db: database}
}

// resolveTargetCourse picks the course a reassignment should land the user
// in. Priority: explicitly requested course, then the user's current course,
// then the course owning the requested batch. Returns ErrNoTargetCourse when
// a batch move was requested but no course can be resolved.
func resolveTargetCourse(newCourseID, currentCourseID, batchCourseID *int64) (int64, error) {
	switch {
	case newCourseID != nil:
		return *newCourseID, nil
	case currentCourseID != nil:
		return *currentCourseID, nil
	case batchCourseID != nil:
		return *batchCourseID, nil
	default:
		return 0, apperrors.ErrNoTargetCourse
	}
}

// AssignCourse inserts a user-course mapping. Duplicate mappings are no-ops.
func (r *AssignmentRepository) AssignCourse(ctx context.Context, userID, courseID int64, role models.CourseRole) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO user_courses (user_id, course_id, role_in_course)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`, userID, courseID, role)
	if err != nil {
		return fmt.Errorf("error assigning user to course: %w", err)
	}
	return nil
}

// AssignBatch inserts a user-course-batch mapping. Duplicates are no-ops.
func (r *AssignmentRepository) AssignBatch(ctx context.Context, userID, courseID, batchID int64) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO user_course_batches (user_id, course_id, batch_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, course_id, batch_id) DO NOTHING
	`, userID, courseID, batchID)
	if err != nil {
		return fmt.Errorf("error assigning user to batch: %w", err)
	}
	return nil
}

// GetCourseAssignment retrieves a user's mapping for one course
func (r *AssignmentRepository) GetCourseAssignment(ctx context.Context, userID, courseID int64) (*models.UserCourse, error) {
	var uc models.UserCourse
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, user_id, course_id, role_in_course, created_at
		FROM user_courses
		WHERE user_id = $1 AND course_id = $2
	`, userID, courseID).Scan(&uc.ID, &uc.UserID, &uc.CourseID, &uc.RoleInCourse, &uc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMappingNotFound
		}
		return nil, fmt.Errorf("error retrieving course assignment: %w", err)
	}
	return &uc, nil
}

// ListCourseAssignments retrieves all course mappings for a user with the
// course names joined in.
func (r *AssignmentRepository) ListCourseAssignments(ctx context.Context, userID int64) ([]*models.UserCourse, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT uc.id, uc.user_id, uc.course_id, uc.role_in_course, uc.created_at, c.name
		FROM user_courses uc
		JOIN courses c ON c.id = uc.course_id
		WHERE uc.user_id = $1
		ORDER BY uc.created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing course assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.UserCourse
	for rows.Next() {
		var uc models.UserCourse
		if err := rows.Scan(&uc.ID, &uc.UserID, &uc.CourseID, &uc.RoleInCourse, &uc.CreatedAt, &uc.CourseName); err != nil {
			return nil, fmt.Errorf("error scanning course assignment: %w", err)
		}
		assignments = append(assignments, &uc)
	}

	return assignments, rows.Err()
}

// ListBatchAssignments retrieves all batch mappings for a user with batch
// titles joined in.
func (r *AssignmentRepository) ListBatchAssignments(ctx context.Context, userID int64) ([]*models.UserCourseBatch, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT ucb.id, ucb.user_id, ucb.course_id, ucb.batch_id, ucb.created_at, b.title
		FROM user_course_batches ucb
		JOIN batches b ON b.id = ucb.batch_id
		WHERE ucb.user_id = $1
		ORDER BY ucb.created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing batch assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.UserCourseBatch
	for rows.Next() {
		var ucb models.UserCourseBatch
		if err := rows.Scan(&ucb.ID, &ucb.UserID, &ucb.CourseID, &ucb.BatchID, &ucb.CreatedAt, &ucb.BatchTitle); err != nil {
			return nil, fmt.Errorf("error scanning batch assignment: %w", err)
		}
		assignments = append(assignments, &ucb)
	}

	return assignments, rows.Err()
}

// RemoveCourseAssignment deletes a user's course mapping together with every
// batch row under that course, in one transaction.
func (r *AssignmentRepository) RemoveCourseAssignment(ctx context.Context, userID, courseID int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx,
			`DELETE FROM user_courses WHERE user_id = $1 AND course_id = $2`,
			userID, courseID)
		if err != nil {
			return fmt.Errorf("error removing course assignment: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrMappingNotFound
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM user_course_batches WHERE user_id = $1 AND course_id = $2`,
			userID, courseID); err != nil {
			return fmt.Errorf("error removing batch assignments: %w", err)
		}

		return nil
	})
}

// RemoveBatchAssignment deletes a single user batch mapping
func (r *AssignmentRepository) RemoveBatchAssignment(ctx context.Context, userID, batchID int64) error {
	cmdTag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM user_course_batches WHERE user_id = $1 AND batch_id = $2`,
		userID, batchID)
	if err != nil {
		return fmt.Errorf("error removing batch assignment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMappingNotFound
	}
	return nil
}

// Reassign moves a user between courses and/or batches in a single
// transaction. The whole plan applies or none of it does, and running the
// same plan twice leaves the mappings unchanged.
func (r *AssignmentRepository) Reassign(ctx context.Context, userID int64, plan ReassignmentPlan) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
			return fmt.Errorf("error checking user existence: %w", err)
		}
		if !exists {
			return apperrors.ErrUserNotFound
		}

		// The user's current course: the explicitly named old course, or
		// their only mapping when they have exactly one.
		currentCourseID := plan.OldCourseID
		if currentCourseID == nil {
			var courseIDs []int64
			rows, err := tx.Query(ctx,
				`SELECT course_id FROM user_courses WHERE user_id = $1`, userID)
			if err != nil {
				return fmt.Errorf("error reading current assignments: %w", err)
			}
			for rows.Next() {
				var id int64
				if err := rows.Scan(&id); err != nil {
					rows.Close()
					return fmt.Errorf("error scanning current assignment: %w", err)
				}
				courseIDs = append(courseIDs, id)
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return err
			}
			if len(courseIDs) == 1 {
				currentCourseID = &courseIDs[0]
			}
		}

		// Resolve and validate the new batch before touching anything
		var batchCourseID *int64
		if plan.NewBatchID != nil {
			var courseID int64
			var active bool
			err := tx.QueryRow(ctx,
				`SELECT course_id, is_active FROM batches WHERE id = $1`,
				*plan.NewBatchID).Scan(&courseID, &active)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperrors.ErrBatchNotFound
				}
				return fmt.Errorf("error retrieving new batch: %w", err)
			}
			if !active {
				return apperrors.ErrBatchInactive
			}
			batchCourseID = &courseID
		}

		var targetCourseID int64
		if plan.NewCourseID != nil || plan.NewBatchID != nil {
			var err error
			targetCourseID, err = resolveTargetCourse(plan.NewCourseID, currentCourseID, batchCourseID)
			if err != nil {
				return err
			}
			if batchCourseID != nil && *batchCourseID != targetCourseID {
				return apperrors.ErrBatchCourseMismatch
			}
		}

		// Preserve the user's course role across the move
		roleInCourse := models.CourseRoleStudent
		if currentCourseID != nil {
			var existingRole models.CourseRole
			err := tx.QueryRow(ctx,
				`SELECT role_in_course FROM user_courses WHERE user_id = $1 AND course_id = $2`,
				userID, *currentCourseID).Scan(&existingRole)
			if err == nil {
				roleInCourse = existingRole
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("error reading current course role: %w", err)
			}
		}

		if plan.OldCourseID != nil {
			cmdTag, err := tx.Exec(ctx,
				`DELETE FROM user_courses WHERE user_id = $1 AND course_id = $2`,
				userID, *plan.OldCourseID)
			if err != nil {
				return fmt.Errorf("error removing old course assignment: %w", err)
			}
			if cmdTag.RowsAffected() == 0 {
				return apperrors.ErrMappingNotFound
			}

			if _, err := tx.Exec(ctx,
				`DELETE FROM user_course_batches WHERE user_id = $1 AND course_id = $2`,
				userID, *plan.OldCourseID); err != nil {
				return fmt.Errorf("error removing old batch assignments: %w", err)
			}
		}

		if plan.OldBatchID != nil {
			// Delete-if-exists keeps retries idempotent
			if _, err := tx.Exec(ctx,
				`DELETE FROM user_course_batches WHERE user_id = $1 AND batch_id = $2`,
				userID, *plan.OldBatchID); err != nil {
				return fmt.Errorf("error removing old batch assignment: %w", err)
			}
		}

		if plan.NewCourseID != nil || plan.NewBatchID != nil {
			if _, err := tx.Exec(ctx, `
				INSERT INTO user_courses (user_id, course_id, role_in_course)
				VALUES ($1, $2, $3)
				ON CONFLICT (user_id, course_id) DO NOTHING
			`, userID, targetCourseID, roleInCourse); err != nil {
				return fmt.Errorf("error inserting new course assignment: %w", err)
			}
		}

		if plan.NewBatchID != nil {
			if _, err := tx.Exec(ctx, `
				INSERT INTO user_course_batches (user_id, course_id, batch_id)
				VALUES ($1, $2, $3)
				ON CONFLICT (user_id, course_id, batch_id) DO NOTHING
			`, userID, targetCourseID, *plan.NewBatchID); err != nil {
				return fmt.Errorf("error inserting new batch assignment: %w", err)
			}
		}

		logger.Info().
			Int64("userID", userID).
			Int64("targetCourseID", targetCourseID).
			Msg("User reassigned")

		return nil
	})
}
