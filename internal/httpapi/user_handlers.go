package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rollcall/internal/auth"
	"rollcall/internal/service"
)

type registerRequest struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=8"`
	University []string `json:"university" binding:"required,min=1"`
}

func serviceRegisterInput(req registerRequest) service.RegisterInput {
	return service.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Universities: req.University,
	}
}

func (a *API) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindingError(err))
		return
	}
	token, err := a.users.Register(c.Request.Context(), serviceRegisterInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *API) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindingError(err))
		return
	}
	token, err := a.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (a *API) profile(c *gin.Context) {
	user, err := a.users.Profile(c.Request.Context(), auth.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *API) userCourses(c *gin.Context) {
	a.listCourses(c, "")
}

func (a *API) userCoursesByUniversity(c *gin.Context) {
	a.listCourses(c, c.Param("university"))
}

func (a *API) listCourses(c *gin.Context, universityCode string) {
	courses, err := a.courses.ListForUser(c.Request.Context(), auth.UserID(c), universityCode)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

type addUniversityRequest struct {
	University string `json:"university" binding:"required"`
}

func (a *API) addUniversity(c *gin.Context) {
	var req addUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindingError(err))
		return
	}
	universities, err := a.users.AddUniversity(c.Request.Context(), auth.UserID(c), req.University)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "University added successfully", "universities": universities})
}

type updateUniversitiesRequest struct {
	University []string `json:"university" binding:"required,min=1"`
}

func (a *API) updateUniversities(c *gin.Context) {
	var req updateUniversitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindingError(err))
		return
	}
	removed, err := a.users.UpdateUniversities(c.Request.Context(), auth.UserID(c), req.University)
	if err != nil {
		fail(c, err)
		return
	}
	if removed == nil {
		removed = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"message":             "Universities updated successfully",
		"universities":        req.University,
		"deletedUniversities": removed,
	})
}
