package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/models/dto"
	"github.com/mertdogan/coursehub/internal/app/services"
	"github.com/mertdogan/coursehub/internal/middleware"
	"github.com/mertdogan/coursehub/internal/pkg/helpers"
)

// EnrollmentController handles the enrollment workflow
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// CreateRequest submits an enrollment request for the authenticated student
// @Summary Request enrollment
// @Description Submits an enrollment request for a course with an optional preferred batch. Admins are notified by email.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEnrollmentRequest true "Requested course and optional batch"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentRequestResponse} "Request created"
// @Failure 400 {object} dto.ErrorResponse "Invalid course/batch pair or inactive course"
// @Failure 404 {object} dto.ErrorResponse "Course or batch not found"
// @Failure 409 {object} dto.ErrorResponse "A pending request for this course already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/requests [post]
func (c *EnrollmentController) CreateRequest(ctx *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if !bindJSONOrAbort(ctx, &req) {
		return
	}

	request, err := c.enrollmentService.CreateRequest(ctx, currentUserID(ctx), req.CourseID, req.BatchID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      dto.FromEnrollmentRequest(request),
		Timestamp: time.Now(),
	})
}

// ListMyRequests returns the authenticated student's enrollment requests
// @Summary List my enrollment requests
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentRequestResponse} "Requests"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/requests/my [get]
func (c *EnrollmentController) ListMyRequests(ctx *gin.Context) {
	requests, err := c.enrollmentService.ListMyRequests(ctx, currentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.EnrollmentRequestResponse, 0, len(requests))
	for _, request := range requests {
		resp = append(resp, dto.FromEnrollmentRequest(request))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ListRequests returns enrollment requests for admins
// @Summary List enrollment requests
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED)
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentRequestListResponse} "Requests"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/requests [get]
func (c *EnrollmentController) ListRequests(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	status := models.RequestStatus(ctx.Query("status"))

	requests, total, err := c.enrollmentService.ListRequests(ctx, status, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.EnrollmentRequestListResponse{
		Requests:       make([]dto.EnrollmentRequestResponse, 0, len(requests)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}
	for _, request := range requests {
		resp.Requests = append(resp.Requests, dto.FromEnrollmentRequest(request))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ApproveRequest approves a pending request and enrolls the student
// @Summary Approve enrollment request
// @Description Approves a pending request in one transaction: places the student into the given batch of the requested course and marks the request approved. The student is notified by email.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.ApproveEnrollmentRequest true "Batch to enroll the student into"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentRequestResponse} "Request approved"
// @Failure 400 {object} dto.ErrorResponse "Batch does not belong to the requested course or is inactive"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request already decided"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/requests/{id}/approve [post]
func (c *EnrollmentController) ApproveRequest(ctx *gin.Context) {
	requestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ApproveEnrollmentRequest
	if !bindJSONOrAbort(ctx, &req) {
		return
	}

	request, err := c.enrollmentService.ApproveRequest(ctx, requestID, req.BatchID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.FromEnrollmentRequest(request),
		Timestamp: time.Now(),
	})
}

// RejectRequest rejects a pending request
// @Summary Reject enrollment request
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentRequestResponse} "Request rejected"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request already decided"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/requests/{id}/reject [post]
func (c *EnrollmentController) RejectRequest(ctx *gin.Context) {
	requestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	request, err := c.enrollmentService.RejectRequest(ctx, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.FromEnrollmentRequest(request),
		Timestamp: time.Now(),
	})
}

// AssignStudent directly assigns a student to a course and batch
// @Summary Assign student
// @Description Assigns a student to a course and batch without an enrollment request. Repeating an existing assignment is a no-op.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignUserRequest true "Student, course and batch"
// @Success 200 {object} dto.APIResponse "Student assigned"
// @Failure 400 {object} dto.ErrorResponse "Batch does not belong to the course or target is not a student"
// @Failure 404 {object} dto.ErrorResponse "User, course or batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/assignments/students [post]
func (c *EnrollmentController) AssignStudent(ctx *gin.Context) {
	var req dto.AssignUserRequest
	if !bindJSONOrAbort(ctx, &req) {
		return
	}

	if err := c.enrollmentService.AssignStudent(ctx, req.UserID, req.CourseID, req.BatchID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Student assigned"))
}

// AssignTrainer directly assigns a trainer to a course and batch
// @Summary Assign trainer
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignUserRequest true "Trainer, course and batch"
// @Success 200 {object} dto.APIResponse "Trainer assigned"
// @Failure 400 {object} dto.ErrorResponse "Batch does not belong to the course or target is not a trainer"
// @Failure 404 {object} dto.ErrorResponse "User, course or batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/assignments/trainers [post]
func (c *EnrollmentController) AssignTrainer(ctx *gin.Context) {
	var req dto.AssignUserRequest
	if !bindJSONOrAbort(ctx, &req) {
		return
	}

	if err := c.enrollmentService.AssignTrainer(ctx, req.UserID, req.CourseID, req.BatchID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Trainer assigned"))
}
