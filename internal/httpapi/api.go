// Package httpapi wires the gin routes onto the service layer and maps
// service errors to the JSON response envelope.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"rollcall/internal/service"
	"rollcall/internal/store"
)

// API holds the handler dependencies.
type API struct {
	users         *service.UserService
	courses       *service.CourseService
	attendances   *service.AttendanceService
	cache         *store.Redis
	maxImageBytes int64
	maxFieldBytes int64
	imageCacheTTL time.Duration
}

// New creates the HTTP API surface.
func New(users *service.UserService, courses *service.CourseService, attendances *service.AttendanceService,
	cache *store.Redis, maxImageBytes, maxFieldBytes int64, imageCacheTTL time.Duration) *API {
	return &API{
		users:         users,
		courses:       courses,
		attendances:   attendances,
		cache:         cache,
		maxImageBytes: maxImageBytes,
		maxFieldBytes: maxFieldBytes,
		imageCacheTTL: imageCacheTTL,
	}
}

// Register mounts all routes. requireAuth guards every route except
// register, login and public image retrieval.
func (a *API) Register(r *gin.Engine, requireAuth gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	authGroup.POST("/register", a.register)
	authGroup.POST("/login", a.login)

	userGroup := authGroup.Group("/user", requireAuth)
	userGroup.GET("", a.profile)
	userGroup.GET("/courses", a.userCourses)
	userGroup.GET("/courses/:university", a.userCoursesByUniversity)
	userGroup.POST("/university", a.addUniversity)
	userGroup.PUT("/university", a.updateUniversities)

	courseGroup := r.Group("/courses", requireAuth)
	courseGroup.GET("/:id", a.getCourse)
	courseGroup.POST("", a.createCourse)
	courseGroup.PUT("/:id", a.updateCourse)
	courseGroup.DELETE("/:id", a.deleteCourse)
	courseGroup.GET("/:id/stats", a.courseStats)

	attendanceGroup := r.Group("/attendance")
	attendanceGroup.GET("/image/:imageId", a.getImage)
	attendanceGroup.POST("", requireAuth, a.createAttendance)
	attendanceGroup.GET("/course/:courseId", requireAuth, a.attendancesByCourse)
	attendanceGroup.GET("/:id", requireAuth, a.getAttendance)
	attendanceGroup.PUT("/:id", requireAuth, a.updateAttendance)
	attendanceGroup.DELETE("/:id", requireAuth, a.deleteAttendance)
}
