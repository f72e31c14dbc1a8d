package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/verification-backend/pkg/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger func() error

type HealthController struct {
	db Pinger
}

func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health GET /health
func (ctrl *HealthController) Health(c *gin.Context) {
	if ctrl.db != nil {
		if err := ctrl.db(); err != nil {
			logger.Error("Health check failed: database unreachable", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Verification API is running",
	})
}
