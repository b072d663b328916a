package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/models/dto"
)

func testContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) *dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return &resp
}

func TestBindJSONOrAbortFieldErrors(t *testing.T) {
	type payload struct {
		Email string `json:"email" binding:"required,email"`
	}

	t.Run("tag failures become per-field messages", func(t *testing.T) {
		c, recorder := testContext(t, "POST", "/test", `{"email":"not-an-email"}`)

		var obj payload
		ok := bindJSONOrAbort(c, &obj)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodeError(t, recorder)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
		assert.NotNil(t, resp.Error.Details)
	})

	t.Run("malformed json is still a 400", func(t *testing.T) {
		c, recorder := testContext(t, "POST", "/test", `{"email":`)

		var obj payload
		ok := bindJSONOrAbort(c, &obj)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodeError(t, recorder)
		assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	})

	t.Run("valid body binds", func(t *testing.T) {
		c, recorder := testContext(t, "POST", "/test", `{"email":"user@example.com"}`)

		var obj payload
		ok := bindJSONOrAbort(c, &obj)

		assert.True(t, ok)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "user@example.com", obj.Email)
	})
}

func TestUploadResumeRequiresStudentRole(t *testing.T) {
	controller := NewAuthController(nil, nil)

	for _, role := range []models.RoleType{models.RoleTrainer, models.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			c, recorder := testContext(t, "POST", "/auth/profile/resume", "")
			c.Set("userID", int64(42))
			c.Set("role", string(role))

			controller.UploadResume(c)

			assert.Equal(t, http.StatusForbidden, recorder.Code)
			resp := decodeError(t, recorder)
			require.NotNil(t, resp.Error)
			assert.Equal(t, dto.ErrorCodeForbidden, resp.Error.Code)
		})
	}

	t.Run("student passes the role gate", func(t *testing.T) {
		c, recorder := testContext(t, "POST", "/auth/profile/resume", "")
		c.Set("userID", int64(42))
		c.Set("role", string(models.RoleStudent))

		controller.UploadResume(c)

		// No multipart file attached, so the request fails validation
		// after the gate rather than being forbidden.
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
