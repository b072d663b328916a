package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/db"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
	"github.com/mertdogan/coursehub/internal/pkg/logger"
)

// CourseVisibility restricts course listings to what the requester may see
type CourseVisibility int

const (
	// CourseVisibilityAll shows every course regardless of state (admin)
	CourseVisibilityAll CourseVisibility = iota
	// CourseVisibilityPublic shows active and approved courses only (student)
	CourseVisibilityPublic
	// CourseVisibilityAssigned shows the public set plus the courses the
	// user is assigned to (trainer)
	CourseVisibilityAssigned
)

// CourseFilter carries list filtering parameters
type CourseFilter struct {
	Search     string
	Category   string
	Level      string
	Visibility CourseVisibility
	UserID     int64 // Required for CourseVisibilityAssigned
	Offset     int
	Limit      int
}

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(database *db.PostgresDB) *CourseRepository {
	return &CourseRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const courseColumns = `id, name, description, thumbnail, level, category, price, is_active, is_approved, created_at, updated_at`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.Description,
		&course.Thumbnail,
		&course.Level,
		&course.Category,
		&course.Price,
		&course.IsActive,
		&course.IsApproved,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// Create inserts a new course. Courses start active but unapproved.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (name, description, thumbnail, level, category, price, is_active, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, FALSE)
		RETURNING id, is_active, is_approved, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		course.Name,
		course.Description,
		course.Thumbnail,
		course.Level,
		course.Category,
		course.Price,
	).Scan(&course.ID, &course.IsActive, &course.IsApproved, &course.CreatedAt, &course.UpdatedAt)

	if err != nil {
		logger.Error().Err(err).Str("name", course.Name).Msg("Error creating course")
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return course, nil
}

// Update updates a course's editable fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET name = $1, description = $2, level = $3, category = $4, price = $5, updated_at = NOW()
		WHERE id = $6
	`

	cmdTag, err := r.db.Pool.Exec(ctx, query,
		course.Name,
		course.Description,
		course.Level,
		course.Category,
		course.Price,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// UpdateThumbnail stores the uploaded thumbnail path for a course
func (r *CourseRepository) UpdateThumbnail(ctx context.Context, courseID int64, path string) error {
	cmdTag, err := r.db.Pool.Exec(ctx,
		`UPDATE courses SET thumbnail = $1, updated_at = NOW() WHERE id = $2`,
		path, courseID)
	if err != nil {
		return fmt.Errorf("error updating course thumbnail: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// SetApproved updates the approval flag on a course
func (r *CourseRepository) SetApproved(ctx context.Context, courseID int64, approved bool) error {
	cmdTag, err := r.db.Pool.Exec(ctx,
		`UPDATE courses SET is_approved = $1, updated_at = NOW() WHERE id = $2`,
		approved, courseID)
	if err != nil {
		return fmt.Errorf("error updating course approval: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// SoftDelete deactivates a course and all of its batches in one
// transaction. Either both statements apply or neither does.
func (r *CourseRepository) SoftDelete(ctx context.Context, courseID int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx,
			`UPDATE courses SET is_active = FALSE, updated_at = NOW() WHERE id = $1`,
			courseID)
		if err != nil {
			return fmt.Errorf("error deactivating course: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrCourseNotFound
		}

		if _, err := tx.Exec(ctx,
			`UPDATE batches SET is_active = FALSE WHERE course_id = $1`,
			courseID); err != nil {
			return fmt.Errorf("error deactivating course batches: %w", err)
		}

		return nil
	})
}

// List retrieves a page of courses visible to the requester
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter) ([]*models.Course, int64, error) {
	base := r.sb.Select(courseColumns).From("courses")
	countBuilder := r.sb.Select("COUNT(*)").From("courses")

	conds := r.filterConditions(filter)
	for _, cond := range conds {
		base = base.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build course count query: %w", err)
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	listSQL, listArgs, err := base.
		OrderBy("created_at DESC").
		Offset(uint64(filter.Offset)).
		Limit(uint64(filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build course list query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// filterConditions translates a CourseFilter into squirrel predicates
func (r *CourseRepository) filterConditions(filter CourseFilter) []squirrel.Sqlizer {
	var conds []squirrel.Sqlizer

	switch filter.Visibility {
	case CourseVisibilityPublic:
		conds = append(conds, squirrel.Eq{"is_active": true, "is_approved": true})
	case CourseVisibilityAssigned:
		conds = append(conds, squirrel.Or{
			squirrel.Eq{"is_active": true, "is_approved": true},
			squirrel.Expr(`EXISTS (SELECT 1 FROM user_courses uc WHERE uc.course_id = courses.id AND uc.user_id = ?)`, filter.UserID),
		})
	}

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		conds = append(conds, squirrel.Or{
			squirrel.ILike{"name": like},
			squirrel.ILike{"description": like},
		})
	}
	if filter.Category != "" {
		conds = append(conds, squirrel.Eq{"category": filter.Category})
	}
	if filter.Level != "" {
		conds = append(conds, squirrel.Eq{"level": filter.Level})
	}

	return conds
}

// Count counts all courses
func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return count, nil
}
