package models

// RoleType defines the platform-level user role
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleTrainer RoleType = "TRAINER"
	RoleStudent RoleType = "STUDENT"
)

// CourseRole defines the role a user holds inside a course
type CourseRole string

const (
	CourseRoleTrainer CourseRole = "TRAINER"
	CourseRoleStudent CourseRole = "STUDENT"
)

// RequestStatus defines the lifecycle state of an enrollment request
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// IsTerminal reports whether the status can no longer change.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestApproved || s == RequestRejected
}
