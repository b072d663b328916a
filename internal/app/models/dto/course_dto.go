package dto

import (
	"time"

	"github.com/mertdogan/coursehub/internal/app/models"
)

// CourseResponse represents basic course information
type CourseResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Thumbnail   *string   `json:"thumbnail,omitempty"`
	Level       string    `json:"level" example:"BEGINNER"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"isActive"`
	IsApproved  bool      `json:"isApproved"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromCourse converts a models.Course to a CourseResponse
func FromCourse(course *models.Course) CourseResponse {
	if course == nil {
		return CourseResponse{}
	}
	return CourseResponse{
		ID:          course.ID,
		Name:        course.Name,
		Description: course.Description,
		Thumbnail:   course.Thumbnail,
		Level:       course.Level,
		Category:    course.Category,
		Price:       course.Price,
		IsActive:    course.IsActive,
		IsApproved:  course.IsApproved,
		CreatedAt:   course.CreatedAt,
	}
}

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Name        string  `form:"name" binding:"required,min=2,max=200"`
	Description string  `form:"description" binding:"required"`
	Level       string  `form:"level" binding:"required"`
	Category    string  `form:"category" binding:"required"`
	Price       float64 `form:"price" binding:"gte=0"`
}

// UpdateCourseRequest represents course update data
type UpdateCourseRequest struct {
	Name        string  `form:"name" binding:"required,min=2,max=200"`
	Description string  `form:"description" binding:"required"`
	Level       string  `form:"level" binding:"required"`
	Category    string  `form:"category" binding:"required"`
	Price       float64 `form:"price" binding:"gte=0"`
}

// CourseListResponse represents a paginated list of courses
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
	PaginationInfo
}

// CourseDetailResponse represents a course with its batches
type CourseDetailResponse struct {
	CourseResponse
	Batches []BatchResponse `json:"batches"`
}
