package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
)

func int64Ptr(v int64) *int64 { return &v }

func scopedVideo(courseID, batchID int64) *models.Video {
	return &models.Video{
		ID:         1,
		CourseID:   int64Ptr(courseID),
		BatchID:    int64Ptr(batchID),
		UploadedBy: 99,
		IsActive:   true,
	}
}

func defaultVideo() *models.Video {
	return &models.Video{ID: 2, IsDefault: true, UploadedBy: 99, IsActive: true}
}

func TestScopeCanViewVideo(t *testing.T) {
	adminScope := Scope{UserID: 1, Role: models.RoleAdmin, CourseIDs: map[int64]struct{}{}}
	trainerScope := Scope{
		UserID:    2,
		Role:      models.RoleTrainer,
		CourseIDs: map[int64]struct{}{10: {}},
	}
	studentScope := Scope{
		UserID:      3,
		Role:        models.RoleStudent,
		CourseIDs:   map[int64]struct{}{10: {}},
		Memberships: []Membership{{CourseID: 10, BatchID: 100}},
	}

	tests := []struct {
		name  string
		scope Scope
		video *models.Video
		want  bool
	}{
		{"admin sees scoped video", adminScope, scopedVideo(10, 100), true},
		{"admin sees inactive video", adminScope, &models.Video{ID: 3, IsDefault: true}, true},
		{"admin sees default video", adminScope, defaultVideo(), true},

		{"trainer sees default video", trainerScope, defaultVideo(), true},
		{"trainer sees assigned course video", trainerScope, scopedVideo(10, 100), true},
		{"trainer sees assigned course video in other batch", trainerScope, scopedVideo(10, 200), true},
		{"trainer blocked from unassigned course", trainerScope, scopedVideo(20, 300), false},
		{"trainer sees own upload in unassigned course", Scope{UserID: 99, Role: models.RoleTrainer, CourseIDs: map[int64]struct{}{}}, scopedVideo(20, 300), true},
		{"trainer blocked from inactive video", trainerScope, &models.Video{ID: 4, CourseID: int64Ptr(10), BatchID: int64Ptr(100), IsActive: false}, false},

		{"student sees default video", studentScope, defaultVideo(), true},
		{"student sees exact membership match", studentScope, scopedVideo(10, 100), true},
		{"student blocked from other batch of same course", studentScope, scopedVideo(10, 200), false},
		{"student blocked from other course", studentScope, scopedVideo(20, 100), false},
		{"student blocked from inactive default", studentScope, &models.Video{ID: 5, IsDefault: true, IsActive: false}, false},

		{"nil video is never visible", adminScope, nil, false},
		{"unknown role sees nothing", Scope{UserID: 4, Role: "GUEST"}, defaultVideo(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.CanViewVideo(tt.video))
		})
	}
}

func TestScopeCanModifyVideo(t *testing.T) {
	video := scopedVideo(10, 100) // uploaded by user 99

	admin := Scope{UserID: 1, Role: models.RoleAdmin}
	uploader := Scope{UserID: 99, Role: models.RoleTrainer}
	otherTrainer := Scope{UserID: 2, Role: models.RoleTrainer}
	student := Scope{UserID: 99, Role: models.RoleStudent}

	assert.True(t, admin.CanModifyVideo(video))
	assert.True(t, uploader.CanModifyVideo(video))
	assert.False(t, otherTrainer.CanModifyVideo(video))
	assert.False(t, student.CanModifyVideo(video))
	assert.False(t, admin.CanModifyVideo(nil))
}

func TestRequireVideoAccess(t *testing.T) {
	student := Scope{UserID: 3, Role: models.RoleStudent}

	assert.NoError(t, RequireVideoAccess(student, defaultVideo()))
	assert.ErrorIs(t, RequireVideoAccess(student, scopedVideo(10, 100)), apperrors.ErrPermissionDenied)
}

func TestScopeCanViewCourse(t *testing.T) {
	adminScope := Scope{UserID: 1, Role: models.RoleAdmin, CourseIDs: map[int64]struct{}{}}
	trainerScope := Scope{
		UserID:    2,
		Role:      models.RoleTrainer,
		CourseIDs: map[int64]struct{}{10: {}},
	}
	studentScope := Scope{
		UserID:      3,
		Role:        models.RoleStudent,
		CourseIDs:   map[int64]struct{}{10: {}},
		Memberships: []Membership{{CourseID: 10, BatchID: 100}},
	}

	published := &models.Course{ID: 20, IsActive: true, IsApproved: true}
	draft := &models.Course{ID: 10, IsActive: true, IsApproved: false}
	foreignDraft := &models.Course{ID: 30, IsActive: true, IsApproved: false}
	retired := &models.Course{ID: 40, IsActive: false, IsApproved: true}

	tests := []struct {
		name   string
		scope  Scope
		course *models.Course
		want   bool
	}{
		{"admin sees published", adminScope, published, true},
		{"admin sees draft", adminScope, foreignDraft, true},
		{"admin sees retired", adminScope, retired, true},
		{"trainer sees published", trainerScope, published, true},
		{"trainer sees assigned draft", trainerScope, draft, true},
		{"trainer blocked from foreign draft", trainerScope, foreignDraft, false},
		{"trainer blocked from retired", trainerScope, retired, false},
		{"student sees published", studentScope, published, true},
		{"student blocked from draft even when assigned", studentScope, draft, false},
		{"student blocked from retired", studentScope, retired, false},
		{"nil course", studentScope, nil, false},
		{"unknown role", Scope{UserID: 9, Role: "AUDITOR"}, published, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.CanViewCourse(tt.course))
		})
	}
}

func TestRequireCourseAccess(t *testing.T) {
	studentScope := Scope{UserID: 3, Role: models.RoleStudent, CourseIDs: map[int64]struct{}{}}
	draft := &models.Course{ID: 7, IsActive: false, IsApproved: false}

	err := RequireCourseAccess(studentScope, draft)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	published := &models.Course{ID: 8, IsActive: true, IsApproved: true}
	assert.NoError(t, RequireCourseAccess(studentScope, published))
}
