package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/models/dto"
	"github.com/mertdogan/coursehub/internal/app/repositories"
	"github.com/mertdogan/coursehub/internal/app/services"
	"github.com/mertdogan/coursehub/internal/middleware"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
	"github.com/mertdogan/coursehub/internal/pkg/helpers"
)

// AdminController handles admin-only user management operations
type AdminController struct {
	adminService services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// GetDashboard returns aggregate platform counts
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard counts"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/dashboard [get]
func (c *AdminController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.adminService.GetDashboard(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dashboard,
		Timestamp: time.Now(),
	})
}

// listUsers writes a paginated, searchable user listing for one role
func (c *AdminController) listUsers(ctx *gin.Context, role models.RoleType) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	users, total, err := c.adminService.ListUsers(ctx, role, ctx.Query("search"), int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.UserListResponse{
		Users:          make([]dto.UserResponse, 0, len(users)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}
	for _, user := range users {
		resp.Users = append(resp.Users, dto.FromUser(user))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// getUserDetails writes one user with their assignments grouped by course
func (c *AdminController) getUserDetails(ctx *gin.Context, role models.RoleType) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, courses, batches, err := c.adminService.GetUserDetails(ctx, userID, role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	assignments := make([]dto.CourseAssignmentInfo, 0, len(courses))
	byCourse := make(map[int64]int, len(courses))
	for _, uc := range courses {
		byCourse[uc.CourseID] = len(assignments)
		assignments = append(assignments, dto.CourseAssignmentInfo{
			CourseID:   uc.CourseID,
			CourseName: uc.CourseName,
			Role:       string(uc.RoleInCourse),
			Batches:    []dto.BatchInfo{},
		})
	}
	for _, ucb := range batches {
		idx, exists := byCourse[ucb.CourseID]
		if !exists {
			continue
		}
		assignments[idx].Batches = append(assignments[idx].Batches, dto.BatchInfo{
			BatchID: ucb.BatchID,
			Title:   ucb.BatchTitle,
		})
	}

	resp := dto.UserDetailResponse{
		UserResponse: dto.FromUser(user),
		Assignments:  assignments,
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ListStudents returns a paginated, searchable student listing
// @Summary List students
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 10, max 100)"
// @Param search query string false "Search in names and emails"
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Students"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students [get]
func (c *AdminController) ListStudents(ctx *gin.Context) {
	c.listUsers(ctx, models.RoleStudent)
}

// ListTrainers returns a paginated, searchable trainer listing
// @Summary List trainers
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size (default 10, max 100)"
// @Param search query string false "Search in names and emails"
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Trainers"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/trainers [get]
func (c *AdminController) ListTrainers(ctx *gin.Context) {
	c.listUsers(ctx, models.RoleTrainer)
}

// GetStudent returns one student with their assignments
// @Summary Get student details
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserDetailResponse} "Student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/{id} [get]
func (c *AdminController) GetStudent(ctx *gin.Context) {
	c.getUserDetails(ctx, models.RoleStudent)
}

// GetTrainer returns one trainer with their assignments
// @Summary Get trainer details
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trainer ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserDetailResponse} "Trainer"
// @Failure 404 {object} dto.ErrorResponse "Trainer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/trainers/{id} [get]
func (c *AdminController) GetTrainer(ctx *gin.Context) {
	c.getUserDetails(ctx, models.RoleTrainer)
}

// UpdateUserStatus toggles a user's active flag
// @Summary Enable or disable user
// @Description Soft-deletes or restores a user account. Disabled users cannot log in.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserStatusRequest true "New active state"
// @Success 200 {object} dto.APIResponse "Status updated"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users/{id}/status [patch]
func (c *AdminController) UpdateUserStatus(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserStatusRequest
	if !bindJSONOrAbort(ctx, &req) {
		return
	}

	if err := c.adminService.SetUserStatus(ctx, userID, *req.IsActive); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "User status updated"))
}

// RemoveUserCourse removes a user's course assignment and its batch rows
// @Summary Remove course assignment
// @Description Removes the user's course mapping and every batch placement under it in one transaction
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Assignment removed"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users/{id}/courses/{courseId} [delete]
func (c *AdminController) RemoveUserCourse(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	if err := c.adminService.RemoveUserCourse(ctx, userID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Course assignment removed"))
}

// RemoveUserBatch removes a user's batch placement
// @Summary Remove batch assignment
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param batchId path int true "Batch ID"
// @Success 200 {object} dto.APIResponse "Assignment removed"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users/{id}/batches/{batchId} [delete]
func (c *AdminController) RemoveUserBatch(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	batchID, ok := parseIDParam(ctx, "batchId")
	if !ok {
		return
	}

	if err := c.adminService.RemoveUserBatch(ctx, userID, batchID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Batch assignment removed"))
}

// ReassignUser moves a user between courses and/or batches
// @Summary Reassign user
// @Description Moves a user to a new course and/or batch in one transaction. The old mapping is removed, the new one created; repeating the same reassignment is a no-op.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.ReassignUserRequest true "Old and new course/batch identifiers"
// @Success 200 {object} dto.APIResponse "User reassigned"
// @Failure 400 {object} dto.ErrorResponse "No target course resolvable or batch belongs to another course"
// @Failure 404 {object} dto.ErrorResponse "User, mapping, course or batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users/{id}/reassign [post]
func (c *AdminController) ReassignUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReassignUserRequest
	if !bindJSONOrAbort(ctx, &req) {
		return
	}
	if req.NewCourseID == nil && req.NewBatchID == nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Nothing to reassign: provide a new course or batch"))
		return
	}

	plan := repositories.ReassignmentPlan{
		OldCourseID: req.OldCourseID,
		OldBatchID:  req.OldBatchID,
		NewCourseID: req.NewCourseID,
		NewBatchID:  req.NewBatchID,
	}

	if err := c.adminService.ReassignUser(ctx, userID, plan); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "User reassigned"))
}
