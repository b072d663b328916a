package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mertdogan/coursehub/internal/app/models/dto"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
)

func handleError(t *testing.T, err error) (int, *dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("GET", "/test", nil)

	HandleAPIError(c, err)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return recorder.Code, &resp
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"validation", apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"batch course mismatch", apperrors.ErrBatchCourseMismatch, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"inactive course", apperrors.ErrCourseInactive, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"no target course", apperrors.ErrNoTargetCourse, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"disabled account", apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeAccountDisabled},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"role not permitted", apperrors.ErrRoleNotPermitted, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"course not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"video not found", apperrors.ErrVideoNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"request not found", apperrors.ErrRequestNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"request already decided", apperrors.ErrRequestAlreadyDecided, http.StatusConflict, dto.ErrorCodeResourceConflict},
		{"duplicate pending request", apperrors.ErrRequestAlreadyPending, http.StatusConflict, dto.ErrorCodeResourceConflict},
		{"unknown store error", errors.New("pq: relation \"users\" does not exist"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := handleError(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.CorrelationID)
		})
	}
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("%w: email format", apperrors.ErrValidationFailed)
	status, resp := handleError(t, wrapped)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
}

func TestHandleAPIErrorHidesRawStoreErrors(t *testing.T) {
	rawErr := errors.New("connection refused: 10.0.0.5:5432")
	status, resp := handleError(t, rawErr)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", resp.Error.Message)
	assert.NotContains(t, resp.Error.Message, "10.0.0.5")
	assert.NotEmpty(t, resp.Error.CorrelationID)
}

func TestHandleAPIErrorCustomMessage(t *testing.T) {
	err := apperrors.NewBadRequestError("Nothing to reassign")
	status, resp := handleError(t, err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Nothing to reassign", resp.Error.Message)
}
