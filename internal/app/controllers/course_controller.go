package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/taallocation/internal/app/models/dto"
	"github.com/yigit/taallocation/internal/app/repositories"
	"github.com/yigit/taallocation/internal/app/services"
	"github.com/yigit/taallocation/internal/middleware"
)

// CourseController handles course reads and deletion
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// parseUUIDParam reads a uuid path parameter and writes a 400 when it is malformed
func parseUUIDParam(ctx *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label+" ID").
			WithField(name).
			WithDetails(label + " ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}

func optionalUUID(v string) *uuid.UUID {
	if v == "" {
		return nil
	}
	id := uuid.MustParse(v)
	return &id
}

// GetAllCourses lists courses
// @Summary List courses
// @Description Lists courses with their TAs and capacity under the ongoing round
// @Tags courses
// @Produce json
// @Param professorId query string false "Filter by professor ID"
// @Param departmentId query string false "Filter by JM ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse} "Courses"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	var req dto.CourseListRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	views, err := c.courseService.ListCourses(ctx.Request.Context(), repositories.CourseFilter{
		ProfessorID:  optionalUUID(req.ProfessorID),
		DepartmentID: optionalUUID(req.DepartmentID),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	courses := make([]dto.CourseResponse, 0, len(views))
	for _, v := range views {
		courses = append(courses, dto.NewCourseResponse(v.Course, v.Limit))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: courses, Timestamp: time.Now()})
}

// GetCourseByID returns one course
// @Summary Get course by ID
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id", "Course")
	if !ok {
		return
	}

	v, err := c.courseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.NewCourseResponse(v.Course, v.Limit),
		Timestamp: time.Now(),
	})
}

// DeleteCourse deletes a course and releases its TAs
// @Summary Delete course
// @Description Deletes a course and resets every student allocated to it
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteCourseResponse} "Course deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id", "Course")
	if !ok {
		return
	}

	reset, err := c.courseService.DeleteCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Message:   "Course deleted successfully",
		Data:      dto.DeleteCourseResponse{StudentsReset: reset},
		Timestamp: time.Now(),
	})
}
