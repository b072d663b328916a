package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	appauth "github.com/mertdogan/coursehub/internal/app/auth"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/repositories"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
	"github.com/mertdogan/coursehub/internal/pkg/filestorage"
)

// VideoService defines the interface for video operations
type VideoService interface {
	CreateVideo(ctx context.Context, video *models.Video, uploaderRole models.RoleType, thumbnail *multipart.FileHeader) error
	GetVideoByID(ctx context.Context, videoID int64, scope appauth.Scope) (*models.Video, error)
	UpdateVideo(ctx context.Context, video *models.Video, scope appauth.Scope) error
	DeleteVideo(ctx context.Context, videoID int64, scope appauth.Scope) error
	ListVideos(ctx context.Context, filter repositories.VideoFilter) ([]*models.Video, int64, error)
}

// videoServiceImpl implements the VideoService interface
type videoServiceImpl struct {
	videoRepo      *repositories.VideoRepository
	batchRepo      *repositories.BatchRepository
	assignmentRepo *repositories.AssignmentRepository
	storage        filestorage.FileStorage
}

// NewVideoService creates a new video service instance
func NewVideoService(
	videoRepo *repositories.VideoRepository,
	batchRepo *repositories.BatchRepository,
	assignmentRepo *repositories.AssignmentRepository,
	storage filestorage.FileStorage,
) VideoService {
	return &videoServiceImpl{
		videoRepo:      videoRepo,
		batchRepo:      batchRepo,
		assignmentRepo: assignmentRepo,
		storage:        storage,
	}
}

// validateVideo validates video fields and scoping rules: default videos
// carry no scope, everything else needs a consistent course+batch pair.
func (s *videoServiceImpl) validateVideo(ctx context.Context, video *models.Video, uploaderRole models.RoleType) error {
	if strings.TrimSpace(video.Name) == "" {
		return fmt.Errorf("%w: video name cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(video.URL) == "" {
		return fmt.Errorf("%w: video URL cannot be empty", apperrors.ErrValidationFailed)
	}

	if video.IsDefault {
		if uploaderRole != models.RoleAdmin {
			return apperrors.ErrRoleNotPermitted
		}
		if video.CourseID != nil || video.BatchID != nil {
			return fmt.Errorf("%w: default videos cannot be scoped to a course or batch", apperrors.ErrValidationFailed)
		}
		return nil
	}

	if video.CourseID == nil || video.BatchID == nil {
		return fmt.Errorf("%w: non-default videos require both a course and a batch", apperrors.ErrValidationFailed)
	}

	batch, err := s.batchRepo.GetByID(ctx, *video.BatchID)
	if err != nil {
		return err
	}
	if batch.CourseID != *video.CourseID {
		return apperrors.ErrBatchCourseMismatch
	}
	if !batch.IsActive {
		return apperrors.ErrBatchInactive
	}

	// Trainers may only publish into courses they are assigned to
	if uploaderRole == models.RoleTrainer {
		if _, err := s.assignmentRepo.GetCourseAssignment(ctx, video.UploadedBy, *video.CourseID); err != nil {
			if errors.Is(err, apperrors.ErrMappingNotFound) {
				return apperrors.ErrPermissionDenied
			}
			return err
		}
	}

	return nil
}

// CreateVideo creates a new video, storing the thumbnail if one was uploaded
func (s *videoServiceImpl) CreateVideo(ctx context.Context, video *models.Video, uploaderRole models.RoleType, thumbnail *multipart.FileHeader) error {
	if err := s.validateVideo(ctx, video, uploaderRole); err != nil {
		return err
	}

	if thumbnail != nil {
		path, err := s.storage.SaveFileWithPath(thumbnail, "videos")
		if err != nil {
			return fmt.Errorf("error saving video thumbnail: %w", err)
		}
		video.Thumbnail = &path
	}

	return s.videoRepo.Create(ctx, video)
}

// GetVideoByID retrieves a video, applying the requester's visibility scope
func (s *videoServiceImpl) GetVideoByID(ctx context.Context, videoID int64, scope appauth.Scope) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := appauth.RequireVideoAccess(scope, video); err != nil {
		return nil, err
	}

	return video, nil
}

// UpdateVideo updates a video if the requester may modify it
func (s *videoServiceImpl) UpdateVideo(ctx context.Context, video *models.Video, scope appauth.Scope) error {
	existing, err := s.videoRepo.GetByID(ctx, video.ID)
	if err != nil {
		return err
	}
	if !scope.CanModifyVideo(existing) {
		return apperrors.ErrPermissionDenied
	}

	if strings.TrimSpace(video.Name) == "" {
		return fmt.Errorf("%w: video name cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(video.URL) == "" {
		return fmt.Errorf("%w: video URL cannot be empty", apperrors.ErrValidationFailed)
	}

	return s.videoRepo.Update(ctx, video)
}

// DeleteVideo soft-deletes a video if the requester may modify it
func (s *videoServiceImpl) DeleteVideo(ctx context.Context, videoID int64, scope appauth.Scope) error {
	existing, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if !scope.CanModifyVideo(existing) {
		return apperrors.ErrPermissionDenied
	}

	return s.videoRepo.SoftDelete(ctx, videoID)
}

// ListVideos retrieves a page of videos within the requester's scope
func (s *videoServiceImpl) ListVideos(ctx context.Context, filter repositories.VideoFilter) ([]*models.Video, int64, error) {
	return s.videoRepo.List(ctx, filter)
}
