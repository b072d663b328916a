package dto

import (
	"time"

	"github.com/mertdogan/coursehub/internal/app/models"
)

// EnrollmentRequestResponse represents an enrollment request with joined
// student and course names for listings.
type EnrollmentRequestResponse struct {
	ID           int64      `json:"id"`
	StudentID    int64      `json:"studentId"`
	StudentName  string     `json:"studentName,omitempty"`
	StudentEmail string     `json:"studentEmail,omitempty"`
	CourseID     int64      `json:"courseId"`
	CourseName   string     `json:"courseName,omitempty"`
	BatchID      *int64     `json:"batchId,omitempty"`
	Status       string     `json:"status" example:"PENDING" enums:"PENDING,APPROVED,REJECTED"`
	CreatedAt    time.Time  `json:"createdAt"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
}

// FromEnrollmentRequest converts a models.EnrollmentRequest to its response
func FromEnrollmentRequest(req *models.EnrollmentRequest) EnrollmentRequestResponse {
	if req == nil {
		return EnrollmentRequestResponse{}
	}
	return EnrollmentRequestResponse{
		ID:           req.ID,
		StudentID:    req.StudentID,
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		CourseID:     req.CourseID,
		CourseName:   req.CourseName,
		BatchID:      req.BatchID,
		Status:       string(req.Status),
		CreatedAt:    req.CreatedAt,
		DecidedAt:    req.DecidedAt,
	}
}

// CreateEnrollmentRequest represents a student's enrollment request
type CreateEnrollmentRequest struct {
	CourseID int64  `json:"courseId" binding:"required,gt=0"`
	BatchID  *int64 `json:"batchId" binding:"omitempty,gt=0"`
}

// ApproveEnrollmentRequest carries the batch the admin places the student in
type ApproveEnrollmentRequest struct {
	BatchID int64 `json:"batchId" binding:"required,gt=0"`
}

// EnrollmentRequestListResponse represents a paginated list of requests
type EnrollmentRequestListResponse struct {
	Requests []EnrollmentRequestResponse `json:"requests"`
	PaginationInfo
}

// AssignUserRequest represents a direct admin assignment of a user to a
// course and batch.
type AssignUserRequest struct {
	UserID   int64 `json:"userId" binding:"required,gt=0"`
	CourseID int64 `json:"courseId" binding:"required,gt=0"`
	BatchID  int64 `json:"batchId" binding:"required,gt=0"`
}
