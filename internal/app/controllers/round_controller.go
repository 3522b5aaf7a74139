package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taallocation/internal/app/models/dto"
	"github.com/yigit/taallocation/internal/app/services"
	"github.com/yigit/taallocation/internal/middleware"
)

// RoundController handles allocation round operations
type RoundController struct {
	roundService services.RoundService
}

// NewRoundController creates a new RoundController
func NewRoundController(roundService services.RoundService) *RoundController {
	return &RoundController{roundService: roundService}
}

// GetCurrentRound returns the ongoing round
// @Summary Get the ongoing round
// @Tags rounds
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.Round} "Ongoing round"
// @Failure 404 {object} dto.ErrorResponse "No ongoing round"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /rounds/current [get]
func (c *RoundController) GetCurrentRound(ctx *gin.Context) {
	round, err := c.roundService.CurrentRound(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: round, Timestamp: time.Now()})
}

// GetAllRounds lists every round, newest first
// @Summary List rounds
// @Tags rounds
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Round} "Rounds"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /rounds [get]
func (c *RoundController) GetAllRounds(ctx *gin.Context) {
	rounds, err := c.roundService.ListRounds(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: rounds, Timestamp: time.Now()})
}

// StartRound closes the ongoing round, if any, and opens the next one
// @Summary Start the next round
// @Tags rounds
// @Produce json
// @Success 201 {object} dto.APIResponse{data=models.Round} "Round started"
// @Failure 409 {object} dto.ErrorResponse "Another round was opened concurrently"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /rounds [post]
func (c *RoundController) StartRound(ctx *gin.Context) {
	round, err := c.roundService.StartNextRound(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Message:   "Round started successfully",
		Data:      round,
		Timestamp: time.Now(),
	})
}

// EndRound closes the ongoing round
// @Summary End the ongoing round
// @Tags rounds
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.Round} "Round ended"
// @Failure 400 {object} dto.ErrorResponse "No ongoing round"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /rounds/current/end [post]
func (c *RoundController) EndRound(ctx *gin.Context) {
	round, err := c.roundService.EndCurrentRound(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Message:   "Round ended successfully",
		Data:      round,
		Timestamp: time.Now(),
	})
}
