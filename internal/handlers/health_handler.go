package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers the container healthcheck
type HealthHandler struct {
	catalogReady func() bool
}

// NewHealthHandler creates a health handler; catalogReady reports whether the
// program catalog has been loaded
func NewHealthHandler(catalogReady func() bool) *HealthHandler {
	return &HealthHandler{
		catalogReady: catalogReady,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if !h.catalogReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "program catalog not loaded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
