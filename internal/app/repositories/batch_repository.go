package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
	"github.com/mertdogan/coursehub/internal/pkg/dberrors"
)

// BatchRepository handles database operations for batches
type BatchRepository struct {
	db *pgxpool.Pool
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{db: db}
}

const batchColumns = `id, title, course_id, start_date, end_date, is_active, created_at`

func scanBatch(row pgx.Row) (*models.Batch, error) {
	var batch models.Batch
	err := row.Scan(
		&batch.ID,
		&batch.Title,
		&batch.CourseID,
		&batch.StartDate,
		&batch.EndDate,
		&batch.IsActive,
		&batch.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// Create inserts a new batch. The owning course is fixed here for the
// batch's lifetime.
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	query := `
		INSERT INTO batches (title, course_id, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, is_active, created_at
	`

	err := r.db.QueryRow(ctx, query,
		batch.Title,
		batch.CourseID,
		batch.StartDate,
		batch.EndDate,
	).Scan(&batch.ID, &batch.IsActive, &batch.CreatedAt)

	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		if dberrors.IsCheckViolation(err) {
			return fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidationFailed)
		}
		return fmt.Errorf("error creating batch: %w", err)
	}

	return nil
}

// GetByID retrieves a batch by ID
func (r *BatchRepository) GetByID(ctx context.Context, id int64) (*models.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`

	batch, err := scanBatch(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("error retrieving batch: %w", err)
	}

	return batch, nil
}

// Update updates a batch's editable fields. course_id is deliberately
// excluded; a batch never moves between courses.
func (r *BatchRepository) Update(ctx context.Context, batch *models.Batch) error {
	query := `
		UPDATE batches
		SET title = $1, start_date = $2, end_date = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		batch.Title,
		batch.StartDate,
		batch.EndDate,
		batch.ID,
	)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidationFailed)
		}
		return fmt.Errorf("error updating batch: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBatchNotFound
	}

	return nil
}

// SoftDelete deactivates a batch
func (r *BatchRepository) SoftDelete(ctx context.Context, batchID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE batches SET is_active = FALSE WHERE id = $1`, batchID)
	if err != nil {
		return fmt.Errorf("error deactivating batch: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBatchNotFound
	}
	return nil
}

// ListByCourse retrieves all batches belonging to a course
func (r *BatchRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE course_id = $1 ORDER BY start_date`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing batches: %w", err)
	}
	defer rows.Close()

	var batches []*models.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning batch row: %w", err)
		}
		batches = append(batches, batch)
	}

	return batches, rows.Err()
}

// Count counts all batches
func (r *BatchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM batches`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting batches: %w", err)
	}
	return count, nil
}
