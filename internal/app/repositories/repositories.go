package repositories

import (
	"github.com/mertdogan/coursehub/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository               *UserRepository
	CourseRepository             *CourseRepository
	BatchRepository              *BatchRepository
	VideoRepository              *VideoRepository
	AssignmentRepository         *AssignmentRepository
	EnrollmentRepository         *EnrollmentRepository
	TokenRepository              *TokenRepository
	PasswordResetTokenRepository *PasswordResetTokenRepository
}

// NewRepositories initializes all repositories. Repositories that run
// multi-statement workflows take the database wrapper for its transaction
// helper; the rest work straight off the pool.
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:               NewUserRepository(database.Pool),
		CourseRepository:             NewCourseRepository(database),
		BatchRepository:              NewBatchRepository(database.Pool),
		VideoRepository:              NewVideoRepository(database.Pool),
		AssignmentRepository:         NewAssignmentRepository(database),
		EnrollmentRepository:         NewEnrollmentRepository(database),
		TokenRepository:              NewTokenRepository(database.Pool),
		PasswordResetTokenRepository: NewPasswordResetTokenRepository(database.Pool),
	}
}
