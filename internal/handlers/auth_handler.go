package handlers

import (
	"net/http"

	"github.com/abroadmap/abroadmap/internal/middleware"
	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, login and logout for students and alumni
type AuthHandler struct {
	service  services.AuthServiceInterface
	sessions *middleware.SessionStore
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service services.AuthServiceInterface, sessions *middleware.SessionStore) *AuthHandler {
	return &AuthHandler{
		service:  service,
		sessions: sessions,
	}
}

// Signup handles POST /api/auth/signup/
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.service.SignupStudent(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	if !h.startStudentSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{Message: "User created successfully", User: user})
}

// Login handles POST /api/auth/login/
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.service.LoginStudent(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	if !h.startStudentSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{Message: "Login successful", User: user})
}

// Logout handles POST /api/auth/logout/
// Only the student part of the session is cleared; an alumni login survives it.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess.StudentID == 0 {
		respondError(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	sess.StudentID = 0
	if err := h.sessions.Save(c, sess); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update session", err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Logout successful"})
}

// AlumniSignup handles POST /api/auth/alumni/signup/
func (h *AuthHandler) AlumniSignup(c *gin.Context) {
	var req models.AlumniSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	alumni, err := h.service.SignupAlumni(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "Program not found")
		return
	}

	if !h.startAlumniSession(c, alumni.ID) {
		return
	}

	c.JSON(http.StatusCreated, models.AlumniAuthResponse{Message: "Alumni account created successfully", Alumni: alumni})
}

// AlumniLogin handles POST /api/auth/alumni/login/
func (h *AuthHandler) AlumniLogin(c *gin.Context) {
	var req models.AlumniLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	alumni, err := h.service.LoginAlumni(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "Alumni not found")
		return
	}

	if !h.startAlumniSession(c, alumni.ID) {
		return
	}

	c.JSON(http.StatusOK, models.AlumniAuthResponse{Message: "Login successful", Alumni: alumni})
}

// AlumniLogout handles POST /api/auth/alumni/logout/
// Always succeeds, with or without an alumni session.
func (h *AuthHandler) AlumniLogout(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess.AlumniID != 0 {
		sess.AlumniID = 0
		if err := h.sessions.Save(c, sess); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update session", err)
			return
		}
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Logout successful"})
}

// startStudentSession signs the student in and drops any alumni identity
func (h *AuthHandler) startStudentSession(c *gin.Context, studentID int) bool {
	if err := h.sessions.Save(c, middleware.Session{StudentID: studentID}); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create session", err)
		return false
	}
	return true
}

// startAlumniSession signs the alumni in; a student identity already in the
// session is kept, as the alumni identity takes precedence anyway
func (h *AuthHandler) startAlumniSession(c *gin.Context, alumniID int) bool {
	sess := middleware.GetSession(c)
	sess.AlumniID = alumniID
	if err := h.sessions.Save(c, sess); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create session", err)
		return false
	}
	return true
}
