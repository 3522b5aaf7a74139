package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/app/models/dto"
	"github.com/yigit/taallocation/internal/app/services"
	"github.com/yigit/taallocation/internal/middleware"
)

// AllocationController handles TA allocation transitions
type AllocationController struct {
	allocationService services.AllocationService
}

// NewAllocationController creates a new AllocationController
func NewAllocationController(allocationService services.AllocationService) *AllocationController {
	return &AllocationController{
		allocationService: allocationService,
	}
}

// Allocate assigns a student as TA of a course
// @Summary Allocate a student to a course
// @Description Allocates an unallocated student as TA of a course in the ongoing round
// @Tags allocation
// @Accept json
// @Produce json
// @Param request body dto.AllocateRequest true "Allocation request"
// @Success 200 {object} dto.SuccessResponse "Student allocated successfully"
// @Failure 400 {object} dto.ErrorResponse "No ongoing round, capacity reached or student not available"
// @Failure 404 {object} dto.ErrorResponse "Student or Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /allocation/allocate [post]
func (c *AllocationController) Allocate(ctx *gin.Context) {
	var req dto.AllocateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	by := models.NewAllocator(req.AllocatedBy, req.AllocatedByID)
	err := c.allocationService.Allocate(ctx.Request.Context(), uuid.MustParse(req.StudentID), uuid.MustParse(req.CourseID), by)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Student allocated successfully"))
}

// Deallocate releases a student from their course
// @Summary Deallocate a student
// @Description Releases an allocated or frozen student. courseId is only recorded in the audit log.
// @Tags allocation
// @Accept json
// @Produce json
// @Param request body dto.DeallocateRequest true "Deallocation request"
// @Success 200 {object} dto.SuccessResponse "Student deallocated successfully"
// @Failure 400 {object} dto.ErrorResponse "Student is not allocated"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /allocation/deallocate [post]
func (c *AllocationController) Deallocate(ctx *gin.Context) {
	var req dto.DeallocateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	var courseID *uuid.UUID
	if req.CourseID != "" {
		id := uuid.MustParse(req.CourseID)
		courseID = &id
	}

	by := models.NewAllocator(req.DeallocatedBy, req.DeallocatedByID)
	if err := c.allocationService.Deallocate(ctx.Request.Context(), uuid.MustParse(req.StudentID), courseID, by); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Student deallocated successfully"))
}

// Freeze locks a student's allocation
// @Summary Freeze an allocation
// @Description Moves an allocated student to the frozen state
// @Tags allocation
// @Accept json
// @Produce json
// @Param request body dto.FreezeRequest true "Freeze request"
// @Success 200 {object} dto.SuccessResponse "Student allocation freezed successfully"
// @Failure 400 {object} dto.ErrorResponse "Cannot freeze allocation"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /allocation/freeze [post]
func (c *AllocationController) Freeze(ctx *gin.Context) {
	var req dto.FreezeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.allocationService.Freeze(ctx.Request.Context(), uuid.MustParse(req.StudentID)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Student allocation freezed successfully"))
}

// GetLogs lists the allocation audit log
// @Summary List allocation logs
// @Description Returns every allocation log entry joined with its student and course
// @Tags allocation
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.LogEntryDetail} "Allocation logs"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /allocation/logs [get]
func (c *AllocationController) GetLogs(ctx *gin.Context) {
	logs, err := c.allocationService.ListLogs(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      logs,
		Timestamp: time.Now(),
	})
}
