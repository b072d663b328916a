package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
)

func int64Ptr(v int64) *int64 { return &v }

// fakeEnrollmentStore is an in-memory enrollmentStore
type fakeEnrollmentStore struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*models.EnrollmentRequest
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{nextID: 1, requests: make(map[int64]*models.EnrollmentRequest)}
}

func (f *fakeEnrollmentStore) Create(ctx context.Context, request *models.EnrollmentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.requests {
		if existing.StudentID == request.StudentID &&
			existing.CourseID == request.CourseID &&
			existing.Status == models.RequestPending {
			return apperrors.ErrRequestAlreadyPending
		}
	}
	request.ID = f.nextID
	f.nextID++
	request.Status = models.RequestPending
	request.CreatedAt = time.Now()
	f.requests[request.ID] = request
	return nil
}

func (f *fakeEnrollmentStore) GetByID(ctx context.Context, id int64) (*models.EnrollmentRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	copied := *request
	return &copied, nil
}

func (f *fakeEnrollmentStore) List(ctx context.Context, status models.RequestStatus, offset, limit int) ([]*models.EnrollmentRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.EnrollmentRequest
	for _, request := range f.requests {
		if status == "" || request.Status == status {
			copied := *request
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeEnrollmentStore) ListByStudent(ctx context.Context, studentID int64) ([]*models.EnrollmentRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.EnrollmentRequest
	for _, request := range f.requests {
		if request.StudentID == studentID {
			copied := *request
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) Approve(ctx context.Context, requestID, batchID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[requestID]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	if request.Status.IsTerminal() {
		return apperrors.ErrRequestAlreadyDecided
	}
	now := time.Now()
	request.Status = models.RequestApproved
	request.BatchID = &batchID
	request.DecidedAt = &now
	return nil
}

func (f *fakeEnrollmentStore) Reject(ctx context.Context, requestID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[requestID]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	if request.Status.IsTerminal() {
		return apperrors.ErrRequestAlreadyDecided
	}
	now := time.Now()
	request.Status = models.RequestRejected
	request.DecidedAt = &now
	return nil
}

type fakeCourseStore struct {
	mu      sync.Mutex
	courses map[int64]*models.Course
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

type fakeBatchStore struct {
	batches map[int64]*models.Batch
}

func (f *fakeBatchStore) GetByID(ctx context.Context, id int64) (*models.Batch, error) {
	batch, ok := f.batches[id]
	if !ok {
		return nil, apperrors.ErrBatchNotFound
	}
	return batch, nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetAdminEmails(ctx context.Context) ([]string, error) {
	return []string{"admin@coursehub.app"}, nil
}

// fakeAssignmentStore records junction inserts, ignoring duplicates the way
// the real store does.
type fakeAssignmentStore struct {
	mu      sync.Mutex
	courses map[[2]int64]models.CourseRole // (user, course) -> role
	batches map[[3]int64]bool              // (user, course, batch)
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{
		courses: make(map[[2]int64]models.CourseRole),
		batches: make(map[[3]int64]bool),
	}
}

func (f *fakeAssignmentStore) AssignCourse(ctx context.Context, userID, courseID int64, role models.CourseRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int64{userID, courseID}
	if _, exists := f.courses[key]; exists {
		return nil // duplicate insert is a no-op
	}
	f.courses[key] = role
	return nil
}

func (f *fakeAssignmentStore) AssignBatch(ctx context.Context, userID, courseID, batchID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches[[3]int64{userID, courseID, batchID}] = true
	return nil
}

// fakeEmail records sent notifications without touching SMTP
type fakeEmail struct {
	mu        sync.Mutex
	decisions []bool
}

func (f *fakeEmail) SendEnrollmentRequestNotification(adminEmails []string, studentName, courseName string, requestID int64) error {
	return nil
}

func (f *fakeEmail) SendEnrollmentDecision(toEmail, toName, courseName string, approved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, approved)
	return nil
}

func (f *fakeEmail) SendPasswordResetEmail(toEmail, toName, token string) error {
	return nil
}

type enrollmentFixture struct {
	service     EnrollmentService
	enrollments *fakeEnrollmentStore
	assignments *fakeAssignmentStore
}

func newEnrollmentFixture() *enrollmentFixture {
	enrollments := newFakeEnrollmentStore()
	assignments := newFakeAssignmentStore()

	courses := &fakeCourseStore{courses: map[int64]*models.Course{
		10: {ID: 10, Name: "Go Basics", IsActive: true, IsApproved: true},
		11: {ID: 11, Name: "Draft Course", IsActive: true, IsApproved: false},
		12: {ID: 12, Name: "Retired Course", IsActive: false, IsApproved: true},
	}}
	batches := &fakeBatchStore{batches: map[int64]*models.Batch{
		100: {ID: 100, CourseID: 10, IsActive: true},
		101: {ID: 101, CourseID: 10, IsActive: false},
		200: {ID: 200, CourseID: 20, IsActive: true},
	}}
	users := &fakeUserStore{users: map[int64]*models.User{
		1: {ID: 1, Name: "Student One", Email: "s1@example.com", Role: models.RoleStudent, IsActive: true},
		2: {ID: 2, Name: "Trainer One", Email: "t1@example.com", Role: models.RoleTrainer, IsActive: true},
	}}

	service := NewEnrollmentService(enrollments, courses, batches, users, assignments, &fakeEmail{}, zerolog.Nop())
	return &enrollmentFixture{service: service, enrollments: enrollments, assignments: assignments}
}

func TestCreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending request", func(t *testing.T) {
		f := newEnrollmentFixture()
		request, err := f.service.CreateRequest(ctx, 1, 10, nil)
		require.NoError(t, err)
		assert.Equal(t, models.RequestPending, request.Status)
		assert.Equal(t, int64(10), request.CourseID)
		assert.Nil(t, request.BatchID)
	})

	t.Run("accepts a preferred batch of the same course", func(t *testing.T) {
		f := newEnrollmentFixture()
		request, err := f.service.CreateRequest(ctx, 1, 10, int64Ptr(100))
		require.NoError(t, err)
		require.NotNil(t, request.BatchID)
		assert.Equal(t, int64(100), *request.BatchID)
	})

	t.Run("rejects a batch belonging to another course", func(t *testing.T) {
		f := newEnrollmentFixture()
		_, err := f.service.CreateRequest(ctx, 1, 10, int64Ptr(200))
		assert.ErrorIs(t, err, apperrors.ErrBatchCourseMismatch)
	})

	t.Run("rejects an inactive batch", func(t *testing.T) {
		f := newEnrollmentFixture()
		_, err := f.service.CreateRequest(ctx, 1, 10, int64Ptr(101))
		assert.ErrorIs(t, err, apperrors.ErrBatchInactive)
	})

	t.Run("rejects an unapproved course", func(t *testing.T) {
		f := newEnrollmentFixture()
		_, err := f.service.CreateRequest(ctx, 1, 11, nil)
		assert.ErrorIs(t, err, apperrors.ErrCourseInactive)
	})

	t.Run("rejects an inactive course", func(t *testing.T) {
		f := newEnrollmentFixture()
		_, err := f.service.CreateRequest(ctx, 1, 12, nil)
		assert.ErrorIs(t, err, apperrors.ErrCourseInactive)
	})

	t.Run("rejects a duplicate pending request", func(t *testing.T) {
		f := newEnrollmentFixture()
		_, err := f.service.CreateRequest(ctx, 1, 10, nil)
		require.NoError(t, err)
		_, err = f.service.CreateRequest(ctx, 1, 10, nil)
		assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyPending)
	})
}

func TestApproveRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("approves a pending request", func(t *testing.T) {
		f := newEnrollmentFixture()
		created, err := f.service.CreateRequest(ctx, 1, 10, nil)
		require.NoError(t, err)

		approved, err := f.service.ApproveRequest(ctx, created.ID, 100)
		require.NoError(t, err)
		assert.Equal(t, models.RequestApproved, approved.Status)
		require.NotNil(t, approved.BatchID)
		assert.Equal(t, int64(100), *approved.BatchID)
		assert.NotNil(t, approved.DecidedAt)
	})

	t.Run("re-approving a decided request conflicts", func(t *testing.T) {
		f := newEnrollmentFixture()
		created, err := f.service.CreateRequest(ctx, 1, 10, nil)
		require.NoError(t, err)

		_, err = f.service.ApproveRequest(ctx, created.ID, 100)
		require.NoError(t, err)
		_, err = f.service.ApproveRequest(ctx, created.ID, 100)
		assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyDecided)
	})

	t.Run("rejecting an approved request conflicts", func(t *testing.T) {
		f := newEnrollmentFixture()
		created, err := f.service.CreateRequest(ctx, 1, 10, nil)
		require.NoError(t, err)

		_, err = f.service.ApproveRequest(ctx, created.ID, 100)
		require.NoError(t, err)
		_, err = f.service.RejectRequest(ctx, created.ID)
		assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyDecided)
	})

	t.Run("unknown request is not found", func(t *testing.T) {
		f := newEnrollmentFixture()
		_, err := f.service.ApproveRequest(ctx, 12345, 100)
		assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
	})
}

func TestDirectAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns a student to course and batch", func(t *testing.T) {
		f := newEnrollmentFixture()
		require.NoError(t, f.service.AssignStudent(ctx, 1, 10, 100))

		assert.Equal(t, models.CourseRoleStudent, f.assignments.courses[[2]int64{1, 10}])
		assert.True(t, f.assignments.batches[[3]int64{1, 10, 100}])
	})

	t.Run("repeated assignment is a no-op", func(t *testing.T) {
		f := newEnrollmentFixture()
		require.NoError(t, f.service.AssignStudent(ctx, 1, 10, 100))
		require.NoError(t, f.service.AssignStudent(ctx, 1, 10, 100))

		assert.Len(t, f.assignments.courses, 1)
		assert.Len(t, f.assignments.batches, 1)
	})

	t.Run("trainer assignment requires trainer role", func(t *testing.T) {
		f := newEnrollmentFixture()
		err := f.service.AssignTrainer(ctx, 1, 10, 100) // user 1 is a student
		assert.ErrorIs(t, err, apperrors.ErrRoleNotPermitted)
	})

	t.Run("student assignment requires student role", func(t *testing.T) {
		f := newEnrollmentFixture()
		err := f.service.AssignStudent(ctx, 2, 10, 100) // user 2 is a trainer
		assert.ErrorIs(t, err, apperrors.ErrRoleNotPermitted)
	})

	t.Run("batch of another course is rejected", func(t *testing.T) {
		f := newEnrollmentFixture()
		err := f.service.AssignStudent(ctx, 1, 10, 200)
		assert.ErrorIs(t, err, apperrors.ErrBatchCourseMismatch)
	})

	t.Run("assigns a trainer", func(t *testing.T) {
		f := newEnrollmentFixture()
		require.NoError(t, f.service.AssignTrainer(ctx, 2, 10, 100))
		assert.Equal(t, models.CourseRoleTrainer, f.assignments.courses[[2]int64{2, 10}])
	})
}
