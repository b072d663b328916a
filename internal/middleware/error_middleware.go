package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertdogan/coursehub/internal/app/models/dto"
	"github.com/mertdogan/coursehub/internal/pkg/apperrors"
	"github.com/mertdogan/coursehub/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Raw store errors are
// logged with the response's correlation id and never serialized to clients.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classifyError(err)

	// A CustomError carries a client-safe message and optional details
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) {
		if customErr.Message != "" {
			detail.Message = customErr.Message
		}
		if customErr.Details != nil {
			detail = detail.WithDetails(customErr.Details)
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("correlationId", detail.CorrelationID).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Internal error handling request")
	} else {
		logger.Debug().
			Err(err).
			Str("correlationId", detail.CorrelationID).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Msg("Request failed")
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

// classifyError resolves an error chain to a status code and error detail
func classifyError(err error) (int, *dto.ErrorDetail) {
	switch {
	// 400 - validation and malformed requests
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request")

	// 401 - authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenRevoked),
		errors.Is(err, apperrors.ErrInvalidPasswordResetToken),
		errors.Is(err, apperrors.ErrPasswordResetTokenUsed):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found")

	// 403 - role and ownership
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrRoleNotPermitted):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Role not permitted for this operation")

	// 404 - missing resources
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrCourseNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Course not found")
	case errors.Is(err, apperrors.ErrBatchNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Batch not found")
	case errors.Is(err, apperrors.ErrVideoNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Video not found")
	case errors.Is(err, apperrors.ErrRequestNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Enrollment request not found")
	case errors.Is(err, apperrors.ErrMappingNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Assignment not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")

	// 409 - state conflicts
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case errors.Is(err, apperrors.ErrRequestAlreadyDecided):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Enrollment request has already been decided")
	case errors.Is(err, apperrors.ErrRequestAlreadyPending):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "A pending enrollment request already exists for this course")
	case errors.Is(err, apperrors.ErrAlreadyAssigned):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "User is already assigned")
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists")
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Conflicting state")

	// 400 - domain rules that reject the request body's referents
	case errors.Is(err, apperrors.ErrBatchCourseMismatch):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Batch does not belong to the given course")
	case errors.Is(err, apperrors.ErrCourseInactive):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Course is not active")
	case errors.Is(err, apperrors.ErrBatchInactive):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Batch is not active")
	case errors.Is(err, apperrors.ErrNoTargetCourse):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "No target course could be resolved for the new batch")

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
