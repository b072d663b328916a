package dto

import (
	"time"

	"github.com/mertdogan/coursehub/internal/app/models"
)

// VideoResponse represents video information with joined names
type VideoResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Thumbnail    *string   `json:"thumbnail,omitempty"`
	Description  string    `json:"description"`
	CourseID     *int64    `json:"courseId,omitempty"`
	CourseName   string    `json:"courseName,omitempty"`
	BatchID      *int64    `json:"batchId,omitempty"`
	BatchTitle   string    `json:"batchTitle,omitempty"`
	IsDefault    bool      `json:"isDefault"`
	UploadedBy   int64     `json:"uploadedBy"`
	UploaderName string    `json:"uploaderName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromVideo converts a models.Video to a VideoResponse
func FromVideo(video *models.Video) VideoResponse {
	if video == nil {
		return VideoResponse{}
	}
	return VideoResponse{
		ID:           video.ID,
		Name:         video.Name,
		URL:          video.URL,
		Thumbnail:    video.Thumbnail,
		Description:  video.Description,
		CourseID:     video.CourseID,
		CourseName:   video.CourseName,
		BatchID:      video.BatchID,
		BatchTitle:   video.BatchTitle,
		IsDefault:    video.IsDefault,
		UploadedBy:   video.UploadedBy,
		UploaderName: video.UploaderName,
		CreatedAt:    video.CreatedAt,
	}
}

// CreateVideoRequest represents video creation data (multipart form; the
// thumbnail file arrives separately as form file "thumbnail").
// Default videos carry no course/batch scoping; scoped videos require both.
type CreateVideoRequest struct {
	Name        string `form:"name" binding:"required,min=2,max=200"`
	URL         string `form:"url" binding:"required,url"`
	Description string `form:"description" binding:"omitempty"`
	CourseID    *int64 `form:"courseId" binding:"omitempty,gt=0"`
	BatchID     *int64 `form:"batchId" binding:"omitempty,gt=0"`
	IsDefault   bool   `form:"isDefault"`
}

// UpdateVideoRequest represents video update data
type UpdateVideoRequest struct {
	Name        string `form:"name" binding:"required,min=2,max=200"`
	URL         string `form:"url" binding:"required,url"`
	Description string `form:"description" binding:"omitempty"`
}

// VideoListResponse represents a paginated list of videos
type VideoListResponse struct {
	Videos []VideoResponse `json:"videos"`
	PaginationInfo
}
