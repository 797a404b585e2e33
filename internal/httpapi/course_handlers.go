package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rollcall/internal/auth"
	"rollcall/internal/model"
	"rollcall/internal/service"
)

type studentPayload struct {
	NeptunCode string `json:"neptun_code" binding:"required,len=6"`
	Name       string `json:"name" binding:"required"`
}

func toStudents(payload []studentPayload) []model.Student {
	students := make([]model.Student, 0, len(payload))
	for _, p := range payload {
		students = append(students, model.Student{NeptunCode: p.NeptunCode, Name: p.Name})
	}
	return students
}

type courseCreateRequest struct {
	Name       string           `json:"name" binding:"required"`
	University string           `json:"university" binding:"required"`
	DayOfWeek  string           `json:"dayOfWeek" binding:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime  string           `json:"startTime"`
	EndTime    string           `json:"endTime"`
	Location   string           `json:"location"`
	Students   []studentPayload `json:"students" binding:"omitempty,dive"`
}

func (a *API) createCourse(c *gin.Context) {
	var req courseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindingError(err))
		return
	}
	course, err := a.courses.Create(c.Request.Context(), auth.UserID(c), service.CourseInput{
		Name:       req.Name,
		University: req.University,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Location:   req.Location,
		Students:   toStudents(req.Students),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Course created successfully", "course": course})
}

func (a *API) getCourse(c *gin.Context) {
	course, err := a.courses.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

type courseUpdateRequest struct {
	Name       *string           `json:"name"`
	University *string           `json:"university"`
	DayOfWeek  *string           `json:"dayOfWeek" binding:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime  *string           `json:"startTime"`
	EndTime    *string           `json:"endTime"`
	Location   *string           `json:"location"`
	Students   *[]studentPayload `json:"students" binding:"omitempty,dive"`
}

func (a *API) updateCourse(c *gin.Context) {
	var req courseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindingError(err))
		return
	}
	update := service.CourseUpdate{
		Name:       req.Name,
		University: req.University,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Location:   req.Location,
	}
	if req.Students != nil {
		students := toStudents(*req.Students)
		update.Students = &students
	}
	course, err := a.courses.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), update)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course updated successfully", "course": course})
}

func (a *API) deleteCourse(c *gin.Context) {
	if err := a.courses.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course and associated attendance records deleted successfully"})
}

func (a *API) courseStats(c *gin.Context) {
	stats, err := a.courses.Stats(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
