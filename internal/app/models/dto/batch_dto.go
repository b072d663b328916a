package dto

import (
	"time"

	"github.com/mertdogan/coursehub/internal/app/models"
)

// BatchResponse represents basic batch information
type BatchResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CourseID  int64     `json:"courseId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromBatch converts a models.Batch to a BatchResponse
func FromBatch(batch *models.Batch) BatchResponse {
	if batch == nil {
		return BatchResponse{}
	}
	return BatchResponse{
		ID:        batch.ID,
		Title:     batch.Title,
		CourseID:  batch.CourseID,
		StartDate: batch.StartDate,
		EndDate:   batch.EndDate,
		IsActive:  batch.IsActive,
		CreatedAt: batch.CreatedAt,
	}
}

// CreateBatchRequest represents batch creation data. The owning course is
// fixed at creation and never updatable.
type CreateBatchRequest struct {
	Title     string    `json:"title" binding:"required,min=2,max=200"`
	CourseID  int64     `json:"courseId" binding:"required,gt=0"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required,gtfield=StartDate"`
}

// UpdateBatchRequest represents batch update data (course binding excluded)
type UpdateBatchRequest struct {
	Title     string    `json:"title" binding:"required,min=2,max=200"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required,gtfield=StartDate"`
}

// BatchListResponse represents a paginated list of batches
type BatchListResponse struct {
	Batches []BatchResponse `json:"batches"`
	PaginationInfo
}
