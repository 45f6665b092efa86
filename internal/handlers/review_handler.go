package handlers

import (
	"errors"
	"net/http"

	"github.com/abroadmap/abroadmap/internal/middleware"
	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/services"
	"github.com/gin-gonic/gin"
)

// ReviewHandler handles program reviews
type ReviewHandler struct {
	service services.ReviewServiceInterface
}

// NewReviewHandler creates a new review handler instance
func NewReviewHandler(service services.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ListReviews handles GET /api/programs/:id/reviews/
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.service.ListReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Program not found")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// AddReview handles POST /api/programs/:id/reviews/add/ (alumni only)
func (h *ReviewHandler) AddReview(c *gin.Context) {
	var req models.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	review, err := h.service.AddReview(c.Request.Context(), middleware.GetSession(c).AlumniID, c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err, "Program or Alumni not found")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// DeleteReview handles DELETE /api/programs/:id/reviews/:review_id/ (author only)
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	err := h.service.DeleteReview(c.Request.Context(), middleware.GetSession(c).AlumniID, c.Param("id"), c.Param("review_id"))
	if err != nil {
		if errors.Is(err, services.ErrNotReviewAuthor) {
			respondError(c, http.StatusForbidden, "You can only delete your own reviews", err)
			return
		}
		respondServiceError(c, err, "Review not found")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Review deleted"})
}
