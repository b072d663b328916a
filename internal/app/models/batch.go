package models

import "time"

// Batch is a time-boxed cohort of a course. A batch belongs to exactly
// one course and its course_id never changes after creation.
type Batch struct {
	ID        int64     `json:"id" db:"id" example:"12"`
	Title     string    `json:"title" db:"title" example:"Fall 2026 Cohort"`
	CourseID  int64     `json:"courseId" db:"course_id" example:"5"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Course *Course `json:"course,omitempty"` // relation, no db tag
}
