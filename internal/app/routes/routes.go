package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/yigit/taallocation/docs"
	"github.com/yigit/taallocation/internal/app/controllers"
	"github.com/yigit/taallocation/internal/pkg/metrics"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Allocation *controllers.AllocationController
	Round      *controllers.RoundController
	Course     *controllers.CourseController
	Student    *controllers.StudentController
	System     *controllers.SystemController
}

// Options toggles the operational endpoints
type Options struct {
	MetricsEnabled bool
	SwaggerEnabled bool
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, opts Options) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", ctrl.System.Health)

	// Allocation transitions and audit log
	allocation := v1.Group("/allocation")
	{
		allocation.POST("/allocate", ctrl.Allocation.Allocate)
		allocation.POST("/deallocate", ctrl.Allocation.Deallocate)
		allocation.POST("/freeze", ctrl.Allocation.Freeze)
		allocation.GET("/logs", ctrl.Allocation.GetLogs)
	}

	rounds := v1.Group("/rounds")
	{
		rounds.GET("", ctrl.Round.GetAllRounds)
		rounds.POST("", ctrl.Round.StartRound)
		rounds.GET("/current", ctrl.Round.GetCurrentRound)
		rounds.POST("/current/end", ctrl.Round.EndRound)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", ctrl.Course.GetAllCourses)
		courses.GET("/:id", ctrl.Course.GetCourseByID)
		courses.DELETE("/:id", ctrl.Course.DeleteCourse)
	}

	students := v1.Group("/students")
	{
		students.GET("", ctrl.Student.GetAllStudents)
		students.GET("/:id", ctrl.Student.GetStudent)
	}

	if opts.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	if opts.SwaggerEnabled {
		// empty host makes the UI call whichever host served it
		docs.SwaggerInfo.Host = ""
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
			ginSwagger.DefaultModelsExpandDepth(1)))
	}
}
