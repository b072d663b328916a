package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/db"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
	"github.com/mertdogan/coursehub/internal/pkg/dberrors"
	"github.com/mertdogan/coursehub/internal/pkg/logger"
)

// EnrollmentRepository handles enrollment request database operations
type EnrollmentRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(database *db.PostgresDB) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new pending enrollment request. A student may hold at
// most one pending request per course.
func (r *EnrollmentRepository) Create(ctx context.Context, request *models.EnrollmentRequest) error {
	var pendingExists bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM enrollment_requests
			WHERE student_id = $1 AND course_id = $2 AND status = $3
		)
	`, request.StudentID, request.CourseID, models.RequestPending).Scan(&pendingExists)
	if err != nil {
		return fmt.Errorf("error checking pending requests: %w", err)
	}
	if pendingExists {
		return apperrors.ErrRequestAlreadyPending
	}

	query := `
		INSERT INTO enrollment_requests (student_id, course_id, batch_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at
	`

	err = r.db.Pool.QueryRow(ctx, query,
		request.StudentID,
		request.CourseID,
		request.BatchID,
		models.RequestPending,
	).Scan(&request.ID, &request.Status, &request.CreatedAt)
	if err != nil {
		// Backstop for two requests racing past the existence check; the
		// partial unique index on pending rows rejects the loser.
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrRequestAlreadyPending
		}
		logger.Error().Err(err).Int64("studentID", request.StudentID).Msg("Error creating enrollment request")
		return fmt.Errorf("error creating enrollment request: %w", err)
	}

	return nil
}

// GetByID retrieves an enrollment request with student and course names
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.EnrollmentRequest, error) {
	query := `
		SELECT er.id, er.student_id, er.course_id, er.batch_id, er.status, er.created_at, er.decided_at,
		       u.name, u.email, c.name
		FROM enrollment_requests er
		JOIN users u ON u.id = er.student_id
		JOIN courses c ON c.id = er.course_id
		WHERE er.id = $1
	`

	var request models.EnrollmentRequest
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.StudentID,
		&request.CourseID,
		&request.BatchID,
		&request.Status,
		&request.CreatedAt,
		&request.DecidedAt,
		&request.StudentName,
		&request.StudentEmail,
		&request.CourseName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment request: %w", err)
	}

	return &request, nil
}

// List retrieves a page of enrollment requests, optionally filtered by status
func (r *EnrollmentRepository) List(ctx context.Context, status models.RequestStatus, offset, limit int) ([]*models.EnrollmentRequest, int64, error) {
	base := r.sb.Select(
		"er.id", "er.student_id", "er.course_id", "er.batch_id", "er.status",
		"er.created_at", "er.decided_at", "u.name", "u.email", "c.name",
	).
		From("enrollment_requests er").
		Join("users u ON u.id = er.student_id").
		Join("courses c ON c.id = er.course_id")

	countBuilder := r.sb.Select("COUNT(*)").From("enrollment_requests er")

	if status != "" {
		base = base.Where(squirrel.Eq{"er.status": status})
		countBuilder = countBuilder.Where(squirrel.Eq{"er.status": status})
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request count query: %w", err)
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting enrollment requests: %w", err)
	}

	listSQL, listArgs, err := base.
		OrderBy("er.created_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request list query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing enrollment requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.EnrollmentRequest
	for rows.Next() {
		var request models.EnrollmentRequest
		if err := rows.Scan(
			&request.ID,
			&request.StudentID,
			&request.CourseID,
			&request.BatchID,
			&request.Status,
			&request.CreatedAt,
			&request.DecidedAt,
			&request.StudentName,
			&request.StudentEmail,
			&request.CourseName,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning enrollment request: %w", err)
		}
		requests = append(requests, &request)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ListByStudent retrieves a student's own enrollment requests
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.EnrollmentRequest, error) {
	query := `
		SELECT er.id, er.student_id, er.course_id, er.batch_id, er.status, er.created_at, er.decided_at, c.name
		FROM enrollment_requests er
		JOIN courses c ON c.id = er.course_id
		WHERE er.student_id = $1
		ORDER BY er.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.EnrollmentRequest
	for rows.Next() {
		var request models.EnrollmentRequest
		if err := rows.Scan(
			&request.ID,
			&request.StudentID,
			&request.CourseID,
			&request.BatchID,
			&request.Status,
			&request.CreatedAt,
			&request.DecidedAt,
			&request.CourseName,
		); err != nil {
			return nil, fmt.Errorf("error scanning enrollment request: %w", err)
		}
		requests = append(requests, &request)
	}

	return requests, rows.Err()
}

// Approve decides a pending request and enrolls the student in a single
// transaction: the request row is locked, the batch is validated against the
// request's course, the junction rows are inserted (duplicates are no-ops)
// and the request is marked approved. Any failure rolls the whole chain back.
func (r *EnrollmentRepository) Approve(ctx context.Context, requestID, batchID int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var request models.EnrollmentRequest
		err := tx.QueryRow(ctx, `
			SELECT id, student_id, course_id, status
			FROM enrollment_requests
			WHERE id = $1
			FOR UPDATE
		`, requestID).Scan(&request.ID, &request.StudentID, &request.CourseID, &request.Status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrRequestNotFound
			}
			return fmt.Errorf("error locking enrollment request: %w", err)
		}

		if request.Status.IsTerminal() {
			return apperrors.ErrRequestAlreadyDecided
		}

		var batchCourseID int64
		var batchActive bool
		err = tx.QueryRow(ctx,
			`SELECT course_id, is_active FROM batches WHERE id = $1`,
			batchID).Scan(&batchCourseID, &batchActive)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrBatchNotFound
			}
			return fmt.Errorf("error retrieving batch: %w", err)
		}
		if batchCourseID != request.CourseID {
			return apperrors.ErrBatchCourseMismatch
		}
		if !batchActive {
			return apperrors.ErrBatchInactive
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO user_courses (user_id, course_id, role_in_course)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, course_id) DO NOTHING
		`, request.StudentID, request.CourseID, models.CourseRoleStudent); err != nil {
			return fmt.Errorf("error enrolling student in course: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO user_course_batches (user_id, course_id, batch_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, course_id, batch_id) DO NOTHING
		`, request.StudentID, request.CourseID, batchID); err != nil {
			return fmt.Errorf("error placing student in batch: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE enrollment_requests
			SET status = $1, batch_id = $2, decided_at = $3
			WHERE id = $4
		`, models.RequestApproved, batchID, time.Now(), requestID); err != nil {
			return fmt.Errorf("error marking request approved: %w", err)
		}

		logger.Info().
			Int64("requestID", requestID).
			Int64("studentID", request.StudentID).
			Int64("courseID", request.CourseID).
			Int64("batchID", batchID).
			Msg("Enrollment request approved")

		return nil
	})
}

// Reject decides a pending request without creating any mappings
func (r *EnrollmentRepository) Reject(ctx context.Context, requestID int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var status models.RequestStatus
		err := tx.QueryRow(ctx, `
			SELECT status FROM enrollment_requests WHERE id = $1 FOR UPDATE
		`, requestID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrRequestNotFound
			}
			return fmt.Errorf("error locking enrollment request: %w", err)
		}

		if status.IsTerminal() {
			return apperrors.ErrRequestAlreadyDecided
		}

		if _, err := tx.Exec(ctx, `
			UPDATE enrollment_requests
			SET status = $1, decided_at = $2
			WHERE id = $3
		`, models.RequestRejected, time.Now(), requestID); err != nil {
			return fmt.Errorf("error marking request rejected: %w", err)
		}

		logger.Info().Int64("requestID", requestID).Msg("Enrollment request rejected")
		return nil
	})
}

// CountByStatus counts enrollment requests with the given status
func (r *EnrollmentRepository) CountByStatus(ctx context.Context, status models.RequestStatus) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollment_requests WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting enrollment requests: %w", err)
	}
	return count, nil
}
