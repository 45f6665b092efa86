package handlers

import (
	"net/http"

	"github.com/abroadmap/abroadmap/internal/services"
	"github.com/gin-gonic/gin"
)

// ProgramHandler serves the public catalog routes
type ProgramHandler struct {
	service services.ProgramServiceInterface
}

// NewProgramHandler creates a new ProgramHandler
func NewProgramHandler(service services.ProgramServiceInterface) *ProgramHandler {
	return &ProgramHandler{service: service}
}

// ListPrograms handles GET /api/programs/
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	programs, err := h.service.ListPrograms(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Programs not found")
		return
	}
	c.JSON(http.StatusOK, programs)
}

// ListAlumniByProgram handles GET /api/auth/alumni/by-program/:id/
func (h *ProgramHandler) ListAlumniByProgram(c *gin.Context) {
	alumni, err := h.service.ListAlumniByProgram(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Program not found")
		return
	}
	c.JSON(http.StatusOK, alumni)
}
