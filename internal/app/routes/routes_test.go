package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/taallocation/internal/app/controllers"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/app/models/dto"
	"github.com/yigit/taallocation/internal/app/repositories"
	"github.com/yigit/taallocation/internal/app/routes"
	"github.com/yigit/taallocation/internal/app/services"
	"github.com/yigit/taallocation/internal/middleware"
	"github.com/yigit/taallocation/internal/testutil/memstore"
)

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

type api struct {
	t      *testing.T
	store  *memstore.Store
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	lgr := zerolog.Nop()
	router := gin.New()
	router.Use(middleware.Metrics())

	routes.SetupRouter(router, routes.Controllers{
		Allocation: controllers.NewAllocationController(services.NewAllocationService(store, services.NoopNotifier{}, lgr)),
		Round:      controllers.NewRoundController(services.NewRoundService(store, lgr)),
		Course:     controllers.NewCourseController(services.NewCourseService(store, lgr)),
		Student:    controllers.NewStudentController(services.NewStudentService(store)),
		System:     controllers.NewSystemController(store),
	}, routes.Options{MetricsEnabled: true, SwaggerEnabled: true})

	return &api{t: t, store: store, router: router}
}

func (a *api) do(method, path string, body interface{}) (int, envelope) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func (a *api) seed(fn repositories.TxFn) {
	a.t.Helper()
	require.NoError(a.t, a.store.WithinTx(context.Background(), fn))
}

func (a *api) addCourse(total, ratio int) *models.Course {
	c := &models.Course{
		Name:           "Data Structures",
		Code:           "CSE" + uuid.NewString()[:4],
		Acronym:        "DS",
		Credits:        4,
		TotalStudents:  total,
		TAStudentRatio: ratio,
	}
	a.seed(func(ctx context.Context, tx repositories.Tx) error { return tx.CreateCourse(ctx, c) })
	return c
}

func (a *api) addStudent(roll string) *models.Student {
	s := &models.Student{
		Name:       "Student " + roll,
		EmailID:    roll + "@college.edu",
		RollNo:     roll,
		Program:    "M.Tech",
		Department: "CSE",
		Year:       1,
	}
	a.seed(func(ctx context.Context, tx repositories.Tx) error { return tx.CreateStudent(ctx, s) })
	return s
}

func allocateBody(s *models.Student, c *models.Course) gin.H {
	return gin.H{"studentId": s.ID.String(), "courseId": c.ID.String(), "allocatedBy": "admin"}
}

func TestAllocationFlow(t *testing.T) {
	a := newAPI(t)
	course := a.addCourse(60, 30)
	first := a.addStudent("MT001")
	second := a.addStudent("MT002")

	status, body := a.do(http.MethodPost, "/api/v1/allocation/allocate", allocateBody(first, course))
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "No ongoing round for allocation.", body.Error.Message)

	status, body = a.do(http.MethodPost, "/api/v1/rounds", nil)
	require.Equal(t, http.StatusCreated, status)
	var round models.Round
	require.NoError(t, json.Unmarshal(body.Data, &round))
	assert.Equal(t, 1, round.CurrentRound)

	status, body = a.do(http.MethodPost, "/api/v1/allocation/allocate", allocateBody(first, course))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Student allocated successfully", body.Message)

	status, body = a.do(http.MethodPost, "/api/v1/allocation/allocate", allocateBody(second, course))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.ErrorCodeCapacityExceeded, body.Error.Code)
	assert.Equal(t, "Maximum allocation limit reached (1 student).", body.Error.Message)

	status, body = a.do(http.MethodPost, "/api/v1/allocation/freeze", gin.H{"studentId": first.ID.String()})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Student allocation freezed successfully", body.Message)

	status, body = a.do(http.MethodPost, "/api/v1/allocation/freeze", gin.H{"studentId": first.ID.String()})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cannot freeze allocation", body.Error.Message)

	status, body = a.do(http.MethodPost, "/api/v1/allocation/deallocate", gin.H{
		"studentId":     first.ID.String(),
		"courseId":      course.ID.String(),
		"deallocatedBy": "admin",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Student deallocated successfully", body.Message)

	status, body = a.do(http.MethodPost, "/api/v1/allocation/deallocate", gin.H{
		"studentId":     first.ID.String(),
		"deallocatedBy": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Student is not allocated", body.Error.Message)

	status, body = a.do(http.MethodGet, "/api/v1/allocation/logs", nil)
	require.Equal(t, http.StatusOK, status)
	var logs []models.LogEntryDetail
	require.NoError(t, json.Unmarshal(body.Data, &logs))
	require.Len(t, logs, 2)
}

func TestAllocateRejectsBadInput(t *testing.T) {
	a := newAPI(t)
	a.do(http.MethodPost, "/api/v1/rounds", nil)

	status, body := a.do(http.MethodPost, "/api/v1/allocation/allocate", gin.H{"courseId": uuid.NewString(), "allocatedBy": "admin"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.ErrorCodeValidationFailed, body.Error.Code)
	assert.Equal(t, "studentId", body.Error.Field)

	status, body = a.do(http.MethodPost, "/api/v1/allocation/allocate", gin.H{
		"studentId":   uuid.NewString(),
		"courseId":    uuid.NewString(),
		"allocatedBy": "admin",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Student or Course not found", body.Error.Message)
}

func TestCourseEndpoints(t *testing.T) {
	a := newAPI(t)
	course := a.addCourse(120, 30)
	student := a.addStudent("MT010")

	status, _ := a.do(http.MethodGet, "/api/v1/courses/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do(http.MethodGet, "/api/v1/courses/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)

	a.do(http.MethodPost, "/api/v1/rounds", nil)
	status, _ = a.do(http.MethodPost, "/api/v1/allocation/allocate", allocateBody(student, course))
	require.Equal(t, http.StatusOK, status)

	status, body := a.do(http.MethodGet, "/api/v1/courses/"+course.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	var got dto.CourseResponse
	require.NoError(t, json.Unmarshal(body.Data, &got))
	assert.Equal(t, 1, got.TACount)
	require.NotNil(t, got.CapacityLimit)
	assert.Equal(t, 2, *got.CapacityLimit)

	status, body = a.do(http.MethodDelete, "/api/v1/courses/"+course.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	var deleted dto.DeleteCourseResponse
	require.NoError(t, json.Unmarshal(body.Data, &deleted))
	assert.Equal(t, 1, deleted.StudentsReset)

	status, body = a.do(http.MethodGet, "/api/v1/students/"+student.RollNo, nil)
	require.Equal(t, http.StatusOK, status)
	var reset models.Student
	require.NoError(t, json.Unmarshal(body.Data, &reset))
	assert.Equal(t, models.StatusUnallocated, reset.AllocationStatus)
	assert.Nil(t, reset.AllocatedTA)
}

func TestStudentListing(t *testing.T) {
	a := newAPI(t)
	course := a.addCourse(300, 30)
	allocated := a.addStudent("MT020")
	a.addStudent("MT021")
	a.do(http.MethodPost, "/api/v1/rounds", nil)
	a.do(http.MethodPost, "/api/v1/allocation/allocate", allocateBody(allocated, course))

	status, body := a.do(http.MethodGet, "/api/v1/students?status=allocated", nil)
	require.Equal(t, http.StatusOK, status)
	var list dto.StudentListResponse
	require.NoError(t, json.Unmarshal(body.Data, &list))
	require.Len(t, list.Students, 1)
	assert.Equal(t, allocated.ID, list.Students[0].ID)
	assert.EqualValues(t, 1, list.Pagination.TotalItems)

	status, _ = a.do(http.MethodGet, "/api/v1/students?status=pending", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do(http.MethodGet, "/api/v1/students/nobody@college.edu", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRoundEndpoints(t *testing.T) {
	a := newAPI(t)

	status, _ := a.do(http.MethodGet, "/api/v1/rounds/current", nil)
	assert.Equal(t, http.StatusNotFound, status)

	a.do(http.MethodPost, "/api/v1/rounds", nil)
	status, body := a.do(http.MethodPost, "/api/v1/rounds", nil)
	require.Equal(t, http.StatusCreated, status)
	var round models.Round
	require.NoError(t, json.Unmarshal(body.Data, &round))
	assert.Equal(t, 2, round.CurrentRound)

	status, _ = a.do(http.MethodPost, "/api/v1/rounds/current/end", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = a.do(http.MethodGet, "/api/v1/rounds", nil)
	require.Equal(t, http.StatusOK, status)
	var rounds []models.Round
	require.NoError(t, json.Unmarshal(body.Data, &rounds))
	assert.Len(t, rounds, 2)
	for _, r := range rounds {
		assert.False(t, r.IsOpen())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	status, body := a.do(http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, string(body.Data))

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "taallocation_http_request_seconds")

	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/allocation/allocate")
}
