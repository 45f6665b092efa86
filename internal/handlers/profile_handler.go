package handlers

import (
	"errors"
	"net/http"

	"github.com/abroadmap/abroadmap/internal/middleware"
	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/services"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the unified and the alumni profile routes
type ProfileHandler struct {
	service services.ProfileServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service services.ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetProfile handles GET /api/auth/profile/
// An alumni session wins over a student session.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	sess := middleware.GetSession(c)

	if sess.AlumniID != 0 {
		alumni, err := h.service.GetAlumni(c.Request.Context(), sess.AlumniID)
		if err != nil {
			respondServiceError(c, err, "Alumni not found")
			return
		}
		c.JSON(http.StatusOK, models.ProfileResponse{Alumni: alumni})
		return
	}

	if sess.StudentID == 0 {
		respondError(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	profile, err := h.service.GetStudentProfile(c.Request.Context(), sess.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(c, http.StatusUnauthorized, "Not authenticated", err)
			return
		}
		respondServiceError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PATCH /api/auth/profile/ with a JSON or multipart body
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess.StudentID == 0 {
		if sess.AlumniID != 0 {
			respondError(c, http.StatusForbidden, "Alumni profiles cannot be edited here", nil)
			return
		}
		respondError(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	// ShouldBind picks JSON or form binding from the Content-Type
	var update models.ProfileUpdate
	if err := c.ShouldBind(&update); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.service.UpdateStudentProfile(c.Request.Context(), sess.StudentID, update)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetAlumniProfile handles GET /api/auth/alumni/profile/
func (h *ProfileHandler) GetAlumniProfile(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess.AlumniID == 0 {
		respondError(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	alumni, err := h.service.GetAlumni(c.Request.Context(), sess.AlumniID)
	if err != nil {
		respondServiceError(c, err, "Alumni not found")
		return
	}

	c.JSON(http.StatusOK, models.AlumniAuthResponse{Alumni: alumni})
}
