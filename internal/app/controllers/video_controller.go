package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	appauth "github.com/mertdogan/coursehub/internal/app/auth"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/models/dto"
	"github.com/mertdogan/coursehub/internal/app/repositories"
	"github.com/mertdogan/coursehub/internal/app/services"
	"github.com/mertdogan/coursehub/internal/middleware"
	"github.com/mertdogan/coursehub/internal/pkg/helpers"
)

// VideoController handles video operations
type VideoController struct {
	videoService  services.VideoService
	scopeResolver *appauth.ScopeResolver
}

// NewVideoController creates a new VideoController
func NewVideoController(videoService services.VideoService, scopeResolver *appauth.ScopeResolver) *VideoController {
	return &VideoController{
		videoService:  videoService,
		scopeResolver: scopeResolver,
	}
}

// videoVisibilityFor maps the requester's role to the video list scope
func videoVisibilityFor(role models.RoleType) repositories.VideoVisibility {
	switch role {
	case models.RoleAdmin:
		return repositories.VideoVisibilityAll
	case models.RoleTrainer:
		return repositories.VideoVisibilityTrainer
	default:
		return repositories.VideoVisibilityStudent
	}
}

// listVideos runs a scoped video list query and writes the paginated
// response. Explicit courseId/batchId selectors narrow the scope; without
// them the requester sees the union of all their assignments.
func (c *VideoController) listVideos(ctx *gin.Context, search string) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	filter := repositories.VideoFilter{
		Search:     search,
		CourseID:   queryInt64Ptr(ctx, "courseId"),
		BatchID:    queryInt64Ptr(ctx, "batchId"),
		Visibility: videoVisibilityFor(currentUserRole(ctx)),
		UserID:     currentUserID(ctx),
		Offset:     int(offset),
		Limit:      limit,
	}

	videos, total, err := c.videoService.ListVideos(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.VideoListResponse{
		Videos:         make([]dto.VideoResponse, 0, len(videos)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}
	for _, video := range videos {
		resp.Videos = append(resp.Videos, dto.FromVideo(video))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ListVideos returns the videos visible to the requester
// @Summary List videos
// @Description Lists videos within the requester's visibility scope. Optional courseId/batchId selectors narrow the result to one assignment.
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 10, max 100)"
// @Param courseId query int false "Restrict to one course"
// @Param batchId query int false "Restrict to one batch"
// @Success 200 {object} dto.APIResponse{data=dto.VideoListResponse} "Videos"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /videos [get]
func (c *VideoController) ListVideos(ctx *gin.Context) {
	c.listVideos(ctx, "")
}

// SearchVideos searches visible videos by name and description
// @Summary Search videos
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.VideoListResponse} "Matching videos"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /videos/search [get]
func (c *VideoController) SearchVideos(ctx *gin.Context) {
	c.listVideos(ctx, ctx.Query("q"))
}

// GetVideo returns one video if the requester may see it
// @Summary Get video
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Success 200 {object} dto.APIResponse{data=dto.VideoResponse} "Video"
// @Failure 403 {object} dto.ErrorResponse "Not visible to the requester"
// @Failure 404 {object} dto.ErrorResponse "Video not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /videos/{id} [get]
func (c *VideoController) GetVideo(ctx *gin.Context) {
	videoID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	scope, ok := resolveScope(ctx, c.scopeResolver)
	if !ok {
		return
	}

	video, err := c.videoService.GetVideoByID(ctx, videoID, scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.FromVideo(video),
		Timestamp: time.Now(),
	})
}

// CreateVideo registers a new video
// @Summary Create video
// @Description Registers a video with an optional thumbnail. Default videos (admin only) carry no scoping; scoped videos need a matching course and batch pair.
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Video name"
// @Param url formData string true "Video URL"
// @Param description formData string false "Video description"
// @Param courseId formData int false "Owning course"
// @Param batchId formData int false "Owning batch"
// @Param isDefault formData bool false "Default video visible to everyone"
// @Param thumbnail formData file false "Thumbnail image"
// @Success 201 {object} dto.APIResponse{data=dto.VideoResponse} "Video created"
// @Failure 400 {object} dto.ErrorResponse "Invalid scoping or request data"
// @Failure 403 {object} dto.ErrorResponse "Role or assignment does not permit the upload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /videos [post]
func (c *VideoController) CreateVideo(ctx *gin.Context) {
	var req dto.CreateVideoRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	video := &models.Video{
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
		CourseID:    req.CourseID,
		BatchID:     req.BatchID,
		IsDefault:   req.IsDefault,
		UploadedBy:  currentUserID(ctx),
	}

	thumbnail, _ := ctx.FormFile("thumbnail")
	if err := c.videoService.CreateVideo(ctx, video, currentUserRole(ctx), thumbnail); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      dto.FromVideo(video),
		Timestamp: time.Now(),
	})
}

// UpdateVideo updates a video's metadata
// @Summary Update video
// @Description Updates name, URL and description. Admins may update any video, trainers only their own uploads.
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Param name formData string true "Video name"
// @Param url formData string true "Video URL"
// @Param description formData string false "Video description"
// @Success 200 {object} dto.APIResponse{data=dto.VideoResponse} "Video updated"
// @Failure 403 {object} dto.ErrorResponse "Not the uploader"
// @Failure 404 {object} dto.ErrorResponse "Video not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /videos/{id} [put]
func (c *VideoController) UpdateVideo(ctx *gin.Context) {
	videoID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateVideoRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	scope, ok := resolveScope(ctx, c.scopeResolver)
	if !ok {
		return
	}

	video := &models.Video{
		ID:          videoID,
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
	}

	if err := c.videoService.UpdateVideo(ctx, video, scope); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.videoService.GetVideoByID(ctx, videoID, scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.FromVideo(updated),
		Timestamp: time.Now(),
	})
}

// DeleteVideo soft-deletes a video
// @Summary Delete video
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Success 200 {object} dto.APIResponse "Video deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the uploader"
// @Failure 404 {object} dto.ErrorResponse "Video not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /videos/{id} [delete]
func (c *VideoController) DeleteVideo(ctx *gin.Context) {
	videoID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	scope, ok := resolveScope(ctx, c.scopeResolver)
	if !ok {
		return
	}

	if err := c.videoService.DeleteVideo(ctx, videoID, scope); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Video deleted"))
}
