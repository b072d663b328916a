package models

import "time"

// UserCourse ties a user to a course with a role. At most one row exists
// per (user_id, course_id); duplicate inserts are no-ops.
type UserCourse struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"userId" db:"user_id"`
	CourseID     int64      `json:"courseId" db:"course_id"`
	RoleInCourse CourseRole `json:"roleInCourse" db:"role_in_course"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`

	CourseName string `json:"courseName,omitempty"` // joined, no db tag
}

// UserCourseBatch enrolls a user in a specific batch of a specific
// course. batch.course_id must equal CourseID; this is validated before
// every insert and enforced again by the schema.
type UserCourseBatch struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	BatchID   int64     `json:"batchId" db:"batch_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	BatchTitle string `json:"batchTitle,omitempty"` // joined, no db tag
}
