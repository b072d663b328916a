// Package controllers contains the HTTP handlers. Controllers bind and
// validate request payloads, call into the service layer and translate
// results into the shared response envelope.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	appauth "github.com/mertdogan/coursehub/internal/app/auth"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/models/dto"
	"github.com/mertdogan/coursehub/internal/middleware"
)

// parseIDParam parses a numeric path parameter, writing a 400 response on
// failure. The boolean reports whether parsing succeeded.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// currentUserID reads the authenticated user's ID set by the JWT middleware
func currentUserID(ctx *gin.Context) int64 {
	if v, exists := ctx.Get("userID"); exists {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// currentUserRole reads the authenticated user's role set by the JWT
// middleware.
func currentUserRole(ctx *gin.Context) models.RoleType {
	if v, exists := ctx.Get("role"); exists {
		if role, ok := v.(string); ok {
			return models.RoleType(role)
		}
	}
	return ""
}

// bindJSONOrAbort binds and schema-validates a JSON body, writing a 400
// response on failure. Binding runs the struct's validator tags; tag
// failures are shaped into per-field messages.
func bindJSONOrAbort(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return false
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}

// resolveScope builds the requester's visibility scope, writing the error
// response on failure.
func resolveScope(ctx *gin.Context, resolver *appauth.ScopeResolver) (appauth.Scope, bool) {
	scope, err := resolver.Resolve(ctx, currentUserID(ctx), currentUserRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return appauth.Scope{}, false
	}
	return scope, true
}

// queryInt64Ptr parses an optional numeric query parameter
func queryInt64Ptr(ctx *gin.Context, name string) *int64 {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
		return &v
	}
	return nil
}
