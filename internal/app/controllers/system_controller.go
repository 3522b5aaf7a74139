package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taallocation/internal/app/models/dto"
	"github.com/yigit/taallocation/internal/pkg/logger"
)

// Pinger reports whether the backing store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemController serves operational endpoints
type SystemController struct {
	db Pinger
}

// NewSystemController creates a new SystemController
func NewSystemController(db Pinger) *SystemController {
	return &SystemController{db: db}
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}

// Health checks the database connection
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.APIResponse{data=controllers.HealthResponse} "Service healthy"
// @Failure 503 {object} dto.APIResponse{data=controllers.HealthResponse} "Database unavailable"
// @Router /health [get]
func (c *SystemController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("Health check failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.APIResponse{
			Success:   false,
			Data:      HealthResponse{Status: "degraded", Database: "down"},
			Timestamp: time.Now(),
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      HealthResponse{Status: "ok", Database: "up"},
		Timestamp: time.Now(),
	})
}
