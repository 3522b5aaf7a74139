package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/app/models/dto"
	"github.com/yigit/taallocation/internal/app/repositories"
	"github.com/yigit/taallocation/internal/app/services"
	"github.com/yigit/taallocation/internal/middleware"
	"github.com/yigit/taallocation/internal/pkg/helpers"
)

// StudentController handles student reads
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// GetAllStudents lists students page by page
// @Summary List students
// @Tags students
// @Produce json
// @Param status query string false "Allocation status (0/unallocated, 1/allocated, 2/frozen)"
// @Param search query string false "Match name, email or roll number"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Students"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	var req dto.StudentListRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	filter := repositories.StudentFilter{Search: req.Search, Limit: limit, Offset: offset}
	if req.Status != "" {
		status, err := models.ParseAllocationStatus(req.Status)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid allocation status").WithField("status")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.Status = &status
	}

	students, total, err := c.studentService.ListStudents(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data: dto.StudentListResponse{
			Students:   students,
			Pagination: helpers.NewPaginationInfo(total, page, limit),
		},
		Timestamp: time.Now(),
	})
}

// GetStudent returns one student by id, email or roll number
// @Summary Get student
// @Tags students
// @Produce json
// @Param id path string true "Student ID, email or roll number"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.studentService.GetStudent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: student, Timestamp: time.Now()})
}
