package handlers

import (
	"errors"
	"net/http"

	"github.com/abroadmap/abroadmap/internal/services"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends {"error": message} and attaches err for the request log
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondFieldErrors sends a field map such as {"username": ["..."]}
func respondFieldErrors(c *gin.Context, fields services.FieldErrors) {
	attachError(c, fields)
	c.JSON(http.StatusBadRequest, fields)
}

// respondBindError renders a binding failure as a field map
func respondBindError(c *gin.Context, err error) {
	attachError(c, err)
	c.JSON(http.StatusBadRequest, ParseValidationErrors(err))
}

// respondServiceError maps a service error onto a status and body
func respondServiceError(c *gin.Context, err error, notFoundMessage string) {
	var fields services.FieldErrors
	switch {
	case errors.As(err, &fields):
		respondFieldErrors(c, fields)
	case errors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, notFoundMessage, err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
	case errors.Is(err, apperrors.ErrAccessDenied):
		respondError(c, http.StatusForbidden, "Permission denied", err)
	default:
		logger.LogError(err, "Unhandled service error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()))
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
