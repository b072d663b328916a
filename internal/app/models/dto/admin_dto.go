package dto

// DashboardResponse represents aggregate counts for the admin dashboard
type DashboardResponse struct {
	Students        int64 `json:"students"`
	Trainers        int64 `json:"trainers"`
	Courses         int64 `json:"courses"`
	Batches         int64 `json:"batches"`
	Videos          int64 `json:"videos"`
	PendingRequests int64 `json:"pendingRequests"`
}

// UpdateUserStatusRequest toggles a user's active flag (soft delete)
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ReassignUserRequest represents an admin moving a user between courses
// and/or batches. At least one of the new identifiers must be present.
type ReassignUserRequest struct {
	OldCourseID *int64 `json:"oldCourseId" binding:"omitempty,gt=0"`
	OldBatchID  *int64 `json:"oldBatchId" binding:"omitempty,gt=0"`
	NewCourseID *int64 `json:"newCourseId" binding:"omitempty,gt=0"`
	NewBatchID  *int64 `json:"newBatchId" binding:"omitempty,gt=0"`
}
