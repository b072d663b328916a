package models

import "time"

// EnrollmentRequest is a student's request to join a course, optionally
// naming a batch. PENDING is the only mutable state; approval and
// rejection are terminal.
type EnrollmentRequest struct {
	ID        int64         `json:"id" db:"id"`
	StudentID int64         `json:"studentId" db:"student_id"`
	CourseID  int64         `json:"courseId" db:"course_id"`
	BatchID   *int64        `json:"batchId,omitempty" db:"batch_id"`
	Status    RequestStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	DecidedAt *time.Time    `json:"decidedAt,omitempty" db:"decided_at"`

	StudentName  string `json:"studentName,omitempty"`  // joined, no db tag
	StudentEmail string `json:"studentEmail,omitempty"` // joined, no db tag
	CourseName   string `json:"courseName,omitempty"`   // joined, no db tag
}
