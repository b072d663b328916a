package models

import "time"

// Video defines the video model based on the 'videos' table.
// Default videos (is_default=true) carry no course/batch scoping and are
// visible to every authenticated user. Scoped videos require both
// course_id and batch_id.
type Video struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" example:"Lesson 3: Interfaces"`
	URL         string    `json:"url" db:"url"`
	Thumbnail   *string   `json:"thumbnail,omitempty" db:"thumbnail"`
	Description string    `json:"description" db:"description"`
	CourseID    *int64    `json:"courseId,omitempty" db:"course_id"`
	BatchID     *int64    `json:"batchId,omitempty" db:"batch_id"`
	IsDefault   bool      `json:"isDefault" db:"is_default"`
	UploadedBy  int64     `json:"uploadedBy" db:"uploaded_by"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	UploaderName string `json:"uploaderName,omitempty"` // joined, no db tag
	CourseName   string `json:"courseName,omitempty"`   // joined, no db tag
	BatchTitle   string `json:"batchTitle,omitempty"`   // joined, no db tag
}
