package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
)

func int64Ptr(v int64) *int64 { return &v }

func TestResolveTargetCourse(t *testing.T) {
	tests := []struct {
		name            string
		newCourseID     *int64
		currentCourseID *int64
		batchCourseID   *int64
		want            int64
		wantErr         error
	}{
		{
			name:        "explicit new course wins over everything",
			newCourseID: int64Ptr(1), currentCourseID: int64Ptr(2), batchCourseID: int64Ptr(3),
			want: 1,
		},
		{
			name:            "current course wins over batch course",
			currentCourseID: int64Ptr(2), batchCourseID: int64Ptr(3),
			want: 2,
		},
		{
			name:          "batch course used as last resort",
			batchCourseID: int64Ptr(3),
			want:          3,
		},
		{
			name:    "nothing resolvable",
			wantErr: apperrors.ErrNoTargetCourse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTargetCourse(tt.newCourseID, tt.currentCourseID, tt.batchCourseID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
