package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
	"github.com/mertdogan/coursehub/internal/pkg/helpers"
	"github.com/mertdogan/coursehub/internal/pkg/logger"
)

// VideoVisibility restricts video listings to what the requester may see
type VideoVisibility int

const (
	// VideoVisibilityAll shows every video (admin)
	VideoVisibilityAll VideoVisibility = iota
	// VideoVisibilityTrainer shows defaults, own uploads and videos in
	// assigned courses
	VideoVisibilityTrainer
	// VideoVisibilityStudent shows defaults and videos matching the
	// student's exact course+batch memberships
	VideoVisibilityStudent
)

// VideoFilter carries list filtering parameters. CourseID/BatchID are the
// caller's explicit selectors; when absent the listing covers the union of
// everything visible to them.
type VideoFilter struct {
	Search     string
	CourseID   *int64
	BatchID    *int64
	Visibility VideoVisibility
	UserID     int64
	Offset     int
	Limit      int
}

// VideoRepository handles database operations for videos
type VideoRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const videoSelectColumns = `v.id, v.name, v.url, v.thumbnail, v.description, v.course_id, v.batch_id,
	v.is_default, v.uploaded_by, v.is_active, v.created_at, v.updated_at,
	u.name, COALESCE(c.name, ''), COALESCE(b.title, '')`

const videoJoins = `videos v
	JOIN users u ON u.id = v.uploaded_by
	LEFT JOIN courses c ON c.id = v.course_id
	LEFT JOIN batches b ON b.id = v.batch_id`

func scanVideo(row pgx.Row) (*models.Video, error) {
	var (
		video     models.Video
		thumbnail sql.NullString
		courseID  sql.NullInt64
		batchID   sql.NullInt64
	)
	err := row.Scan(
		&video.ID,
		&video.Name,
		&video.URL,
		&thumbnail,
		&video.Description,
		&courseID,
		&batchID,
		&video.IsDefault,
		&video.UploadedBy,
		&video.IsActive,
		&video.CreatedAt,
		&video.UpdatedAt,
		&video.UploaderName,
		&video.CourseName,
		&video.BatchTitle,
	)
	if err != nil {
		return nil, err
	}
	video.Thumbnail = helpers.NullStringPtr(thumbnail)
	video.CourseID = helpers.NullInt64Ptr(courseID)
	video.BatchID = helpers.NullInt64Ptr(batchID)
	return &video, nil
}

// Create inserts a new video
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (name, url, thumbnail, description, course_id, batch_id, is_default, uploaded_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING id, is_active, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		video.Name,
		video.URL,
		helpers.GetNullString(video.Thumbnail),
		video.Description,
		helpers.GetNullInt64(video.CourseID),
		helpers.GetNullInt64(video.BatchID),
		video.IsDefault,
		video.UploadedBy,
	).Scan(&video.ID, &video.IsActive, &video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		logger.Error().Err(err).Str("name", video.Name).Msg("Error creating video")
		return fmt.Errorf("error creating video: %w", err)
	}

	return nil
}

// GetByID retrieves a video with uploader, course and batch names joined in
func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	query := `SELECT ` + videoSelectColumns + ` FROM ` + videoJoins + ` WHERE v.id = $1`

	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, fmt.Errorf("error retrieving video: %w", err)
	}

	return video, nil
}

// Update updates a video's editable fields
func (r *VideoRepository) Update(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET name = $1, url = $2, description = $3, updated_at = NOW()
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query, video.Name, video.URL, video.Description, video.ID)
	if err != nil {
		return fmt.Errorf("error updating video: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrVideoNotFound
	}

	return nil
}

// UpdateThumbnail stores the uploaded thumbnail path for a video
func (r *VideoRepository) UpdateThumbnail(ctx context.Context, videoID int64, path string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE videos SET thumbnail = $1, updated_at = NOW() WHERE id = $2`,
		path, videoID)
	if err != nil {
		return fmt.Errorf("error updating video thumbnail: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrVideoNotFound
	}
	return nil
}

// SoftDelete deactivates a video
func (r *VideoRepository) SoftDelete(ctx context.Context, videoID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE videos SET is_active = FALSE, updated_at = NOW() WHERE id = $1`,
		videoID)
	if err != nil {
		return fmt.Errorf("error deactivating video: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrVideoNotFound
	}
	return nil
}

// List retrieves a page of videos visible to the requester
func (r *VideoRepository) List(ctx context.Context, filter VideoFilter) ([]*models.Video, int64, error) {
	conds := r.filterConditions(filter)

	countBuilder := r.sb.Select("COUNT(*)").From(videoJoins)
	base := r.sb.Select(videoSelectColumns).From(videoJoins)
	for _, cond := range conds {
		base = base.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build video count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting videos: %w", err)
	}

	listSQL, listArgs, err := base.
		OrderBy("v.created_at DESC").
		Offset(uint64(filter.Offset)).
		Limit(uint64(filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build video list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning video row: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// filterConditions translates a VideoFilter into squirrel predicates
func (r *VideoRepository) filterConditions(filter VideoFilter) []squirrel.Sqlizer {
	var conds []squirrel.Sqlizer

	switch filter.Visibility {
	case VideoVisibilityTrainer:
		conds = append(conds, squirrel.Eq{"v.is_active": true})
		conds = append(conds, squirrel.Or{
			squirrel.Eq{"v.is_default": true},
			squirrel.Eq{"v.uploaded_by": filter.UserID},
			squirrel.Expr(`EXISTS (SELECT 1 FROM user_courses uc WHERE uc.user_id = ? AND uc.course_id = v.course_id)`, filter.UserID),
		})
	case VideoVisibilityStudent:
		conds = append(conds, squirrel.Eq{"v.is_active": true})
		conds = append(conds, squirrel.Or{
			squirrel.Eq{"v.is_default": true},
			squirrel.Expr(`EXISTS (SELECT 1 FROM user_course_batches ucb
				WHERE ucb.user_id = ? AND ucb.course_id = v.course_id AND ucb.batch_id = v.batch_id)`, filter.UserID),
		})
	}

	if filter.CourseID != nil {
		conds = append(conds, squirrel.Eq{"v.course_id": *filter.CourseID})
	}
	if filter.BatchID != nil {
		conds = append(conds, squirrel.Eq{"v.batch_id": *filter.BatchID})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		conds = append(conds, squirrel.Or{
			squirrel.ILike{"v.name": like},
			squirrel.ILike{"v.description": like},
		})
	}

	return conds
}

// Count counts all videos
func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting videos: %w", err)
	}
	return count, nil
}
