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

// CourseController handles course and batch listing operations
type CourseController struct {
	courseService services.CourseService
	batchService  services.BatchService
	scopeResolver *appauth.ScopeResolver
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, batchService services.BatchService, scopeResolver *appauth.ScopeResolver) *CourseController {
	return &CourseController{
		courseService: courseService,
		batchService:  batchService,
		scopeResolver: scopeResolver,
	}
}

// courseVisibilityFor maps the requester's role to the course list scope:
// admins see everything, trainers see their assignments plus the public
// catalog, students see only active approved courses.
func courseVisibilityFor(role models.RoleType) repositories.CourseVisibility {
	switch role {
	case models.RoleAdmin:
		return repositories.CourseVisibilityAll
	case models.RoleTrainer:
		return repositories.CourseVisibilityAssigned
	default:
		return repositories.CourseVisibilityPublic
	}
}

// ListCourses returns the courses visible to the requester
// @Summary List courses
// @Description Lists courses scoped to the requester's role, with optional search and filters
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 10, max 100)"
// @Param search query string false "Search in course names"
// @Param category query string false "Filter by category"
// @Param level query string false "Filter by level"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	filter := repositories.CourseFilter{
		Search:     ctx.Query("search"),
		Category:   ctx.Query("category"),
		Level:      ctx.Query("level"),
		Visibility: courseVisibilityFor(currentUserRole(ctx)),
		UserID:     currentUserID(ctx),
		Offset:     int(offset),
		Limit:      limit,
	}

	courses, total, err := c.courseService.ListCourses(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.CourseListResponse{
		Courses:        make([]dto.CourseResponse, 0, len(courses)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}
	for _, course := range courses {
		resp.Courses = append(resp.Courses, dto.FromCourse(course))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetCourse returns one course with its batches
// @Summary Get course details
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseDetailResponse} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	scope, ok := resolveScope(ctx, c.scopeResolver)
	if !ok {
		return
	}

	course, err := c.courseService.GetCourseWithBatches(ctx, courseID, scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.CourseDetailResponse{
		CourseResponse: dto.FromCourse(course),
		Batches:        make([]dto.BatchResponse, 0, len(course.Batches)),
	}
	for _, batch := range course.Batches {
		resp.Batches = append(resp.Batches, dto.FromBatch(batch))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// CreateCourse creates a new course
// @Summary Create course
// @Description Creates a course with an optional thumbnail image (admin only)
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Course name"
// @Param description formData string true "Course description"
// @Param level formData string true "Course level"
// @Param category formData string true "Course category"
// @Param price formData number false "Course price"
// @Param thumbnail formData file false "Thumbnail image"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		Level:       req.Level,
		Category:    req.Category,
		Price:       req.Price,
	}

	thumbnail, _ := ctx.FormFile("thumbnail")
	if err := c.courseService.CreateCourse(ctx, course, thumbnail); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      dto.FromCourse(course),
		Timestamp: time.Now(),
	})
}

// UpdateCourse updates an existing course
// @Summary Update course
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param name formData string true "Course name"
// @Param description formData string true "Course description"
// @Param level formData string true "Course level"
// @Param category formData string true "Course category"
// @Param price formData number false "Course price"
// @Param thumbnail formData file false "Thumbnail image"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course := &models.Course{
		ID:          courseID,
		Name:        req.Name,
		Description: req.Description,
		Level:       req.Level,
		Category:    req.Category,
		Price:       req.Price,
	}

	thumbnail, _ := ctx.FormFile("thumbnail")
	if err := c.courseService.UpdateCourse(ctx, course, thumbnail); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.courseService.GetCourseByID(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.FromCourse(updated),
		Timestamp: time.Now(),
	})
}

// ApproveCourse flips a course's approval flag
// @Summary Approve or unapprove course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param approved query bool false "Approval state (default true)"
// @Success 200 {object} dto.APIResponse "Approval updated"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/approve [patch]
func (c *CourseController) ApproveCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	approved := ctx.DefaultQuery("approved", "true") == "true"
	if err := c.courseService.ApproveCourse(ctx, courseID, approved); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Course approval updated"))
}

// DeleteCourse soft-deletes a course and all of its batches
// @Summary Delete course
// @Description Soft-deletes the course and every batch under it in one transaction
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Course deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Course deleted"))
}

// ListCourseBatches returns the batches of one course
// @Summary List batches of a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.BatchResponse} "Batches"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/batches [get]
func (c *CourseController) ListCourseBatches(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	scope, ok := resolveScope(ctx, c.scopeResolver)
	if !ok {
		return
	}

	batches, err := c.batchService.ListBatchesByCourse(ctx, courseID, scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.BatchResponse, 0, len(batches))
	for _, batch := range batches {
		resp = append(resp, dto.FromBatch(batch))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      resp,
		Timestamp: time.Now(),
	})
}
