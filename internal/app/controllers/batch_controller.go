package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	appauth "github.com/mertdogan/coursehub/internal/app/auth"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/models/dto"
	"github.com/mertdogan/coursehub/internal/app/services"
	"github.com/mertdogan/coursehub/internal/middleware"
)

// BatchController handles batch operations
type BatchController struct {
	batchService  services.BatchService
	scopeResolver *appauth.ScopeResolver
}

// NewBatchController creates a new BatchController
func NewBatchController(batchService services.BatchService, scopeResolver *appauth.ScopeResolver) *BatchController {
	return &BatchController{
		batchService:  batchService,
		scopeResolver: scopeResolver,
	}
}

// CreateBatch creates a new batch under a course
// @Summary Create batch
// @Description Creates a batch under an existing active course (admin only)
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBatchRequest true "Batch information"
// @Success 201 {object} dto.APIResponse{data=dto.BatchResponse} "Batch created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or inactive course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /batches [post]
func (c *BatchController) CreateBatch(ctx *gin.Context) {
	var req dto.CreateBatchRequest
	if !bindJSONOrAbort(ctx, &req) {
		return
	}

	batch := &models.Batch{
		Title:     req.Title,
		CourseID:  req.CourseID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	if err := c.batchService.CreateBatch(ctx, batch); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      dto.FromBatch(batch),
		Timestamp: time.Now(),
	})
}

// GetBatch returns one batch
// @Summary Get batch
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.APIResponse{data=dto.BatchResponse} "Batch"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /batches/{id} [get]
func (c *BatchController) GetBatch(ctx *gin.Context) {
	batchID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	scope, ok := resolveScope(ctx, c.scopeResolver)
	if !ok {
		return
	}

	batch, err := c.batchService.GetBatchByID(ctx, batchID, scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.FromBatch(batch),
		Timestamp: time.Now(),
	})
}

// UpdateBatch updates a batch's title and dates. The owning course can
// never change.
// @Summary Update batch
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Param request body dto.UpdateBatchRequest true "Batch information"
// @Success 200 {object} dto.APIResponse{data=dto.BatchResponse} "Batch updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /batches/{id} [put]
func (c *BatchController) UpdateBatch(ctx *gin.Context) {
	batchID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateBatchRequest
	if !bindJSONOrAbort(ctx, &req) {
		return
	}

	batch := &models.Batch{
		ID:        batchID,
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	if err := c.batchService.UpdateBatch(ctx, batch); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	scope, ok := resolveScope(ctx, c.scopeResolver)
	if !ok {
		return
	}

	updated, err := c.batchService.GetBatchByID(ctx, batchID, scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.FromBatch(updated),
		Timestamp: time.Now(),
	})
}

// DeleteBatch soft-deletes a batch
// @Summary Delete batch
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.APIResponse "Batch deleted"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /batches/{id} [delete]
func (c *BatchController) DeleteBatch(ctx *gin.Context) {
	batchID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.batchService.DeleteBatch(ctx, batchID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Batch deleted"))
}
