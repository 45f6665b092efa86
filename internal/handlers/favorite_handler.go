package handlers

import (
	"errors"
	"net/http"

	"github.com/abroadmap/abroadmap/internal/middleware"
	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/services"
	"github.com/gin-gonic/gin"
)

// FavoriteHandler handles a student's saved programs. Routes sit behind RequireStudent.
type FavoriteHandler struct {
	service services.FavoriteServiceInterface
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(service services.FavoriteServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// ListFavorites handles GET /api/auth/favorites/
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	favs, err := h.service.ListFavorites(c.Request.Context(), middleware.GetSession(c).StudentID)
	if err != nil {
		respondServiceError(c, err, "Favorites not found")
		return
	}
	c.JSON(http.StatusOK, favs)
}

// AddFavorite handles POST /api/auth/favorites/
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	var req models.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	fav, err := h.service.AddFavorite(c.Request.Context(), middleware.GetSession(c).StudentID, req.ProgramID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyFavorited) {
			respondError(c, http.StatusBadRequest, "Program already favorited", err)
			return
		}
		respondServiceError(c, err, "Program not found")
		return
	}

	c.JSON(http.StatusCreated, fav)
}

// RemoveFavorite handles DELETE /api/auth/favorites/:id/
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	err := h.service.RemoveFavorite(c.Request.Context(), middleware.GetSession(c).StudentID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrFavoriteNotFound) {
			respondError(c, http.StatusNotFound, "Favorite not found", err)
			return
		}
		respondServiceError(c, err, "Favorite not found")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Favorite removed"})
}

// CheckFavorite handles GET /api/auth/favorites/:id/check/
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	ok, err := h.service.IsFavorite(c.Request.Context(), middleware.GetSession(c).StudentID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Program not found")
		return
	}
	c.JSON(http.StatusOK, models.FavoriteStatus{IsFavorite: ok})
}
