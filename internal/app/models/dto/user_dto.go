package dto

import (
	"time"

	"github.com/mertdogan/coursehub/internal/app/models"
)

// UserResponse represents basic user information
type UserResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone,omitempty"`
	Role       string  `json:"role"`
	IsActive   bool    `json:"isActive"`
	ProfilePic *string `json:"profilePic,omitempty"`
	Resume     *string `json:"resume,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.Phone,
		Role:       string(user.Role),
		IsActive:   user.IsActive,
		ProfilePic: user.ProfilePic,
		Resume:     user.Resume,
		CreatedAt:  user.CreatedAt,
	}
}

// CourseAssignmentInfo describes one course a user belongs to, with the
// batches they are placed in.
type CourseAssignmentInfo struct {
	CourseID   int64       `json:"courseId"`
	CourseName string      `json:"courseName"`
	Role       string      `json:"role" example:"STUDENT" enums:"TRAINER,STUDENT"`
	Batches    []BatchInfo `json:"batches"`
}

// BatchInfo is a compact batch reference inside assignment listings
type BatchInfo struct {
	BatchID int64  `json:"batchId"`
	Title   string `json:"title"`
}

// UserDetailResponse represents a user with their course/batch assignments
type UserDetailResponse struct {
	UserResponse
	Assignments []CourseAssignmentInfo `json:"assignments"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	PaginationInfo
}
