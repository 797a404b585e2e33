package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rollcall/internal/apperr"
	"rollcall/internal/auth"
	"rollcall/internal/model"
	"rollcall/internal/service"
)

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// createAttendance handles the multipart upload: the sheet image under
// "attendanceImage" plus course_id, date and a students JSON array field.
func (a *API) createAttendance(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.maxImageBytes+a.maxFieldBytes)

	file, header, err := c.Request.FormFile("attendanceImage")
	if err != nil {
		fail(c, apperr.New(apperr.Validation, "Attendance image is required"))
		return
	}
	defer file.Close()
	if header.Size > a.maxImageBytes {
		fail(c, apperr.New(apperr.Validation, "Attendance image exceeds the size limit"))
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		fail(c, apperr.NewInternal("Attendance creation failed", err))
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	studentsField := c.PostForm("students")
	if int64(len(studentsField)) > a.maxFieldBytes {
		fail(c, apperr.New(apperr.Validation, "Student list exceeds the size limit"))
		return
	}
	var students []model.StudentAttendance
	if studentsField != "" {
		if err := json.Unmarshal([]byte(studentsField), &students); err != nil {
			fail(c, apperr.NewValidation("Invalid attendance data",
				apperr.FieldIssue{Field: "students", Message: "students must be a JSON array"}))
			return
		}
	}

	var date time.Time
	if dateField := c.PostForm("date"); dateField != "" {
		date, err = parseDate(dateField)
		if err != nil {
			fail(c, apperr.NewValidation("Invalid attendance data",
				apperr.FieldIssue{Field: "date", Message: "date must be an ISO date"}))
			return
		}
	}

	attendance, err := a.attendances.Create(c.Request.Context(), auth.UserID(c), service.CreateAttendanceInput{
		CourseID:         c.PostForm("course_id"),
		Date:             date,
		Students:         students,
		ImageData:        data,
		ImageContentType: contentType,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Attendance created successfully",
		"attendance": gin.H{
			"id":     attendance.ID,
			"date":   attendance.Date,
			"status": attendance.Status,
		},
	})
}

// getImage serves stored image bytes. Public: an opaque image id is the only
// credential. Bytes are cached in redis read-through.
func (a *API) getImage(c *gin.Context) {
	imageID := c.Param("imageId")
	if data, contentType, ok := a.cache.CachedImage(c.Request.Context(), imageID); ok {
		c.Data(http.StatusOK, contentType, data)
		return
	}
	img, err := a.attendances.Image(c.Request.Context(), imageID)
	if err != nil {
		fail(c, err)
		return
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	a.cache.CacheImage(c.Request.Context(), imageID, img.Data, contentType, a.imageCacheTTL)
	c.Data(http.StatusOK, contentType, img.Data)
}

func (a *API) attendancesByCourse(c *gin.Context) {
	attendances, err := a.attendances.ListByCourse(c.Request.Context(), auth.UserID(c), c.Param("courseId"))
	if err != nil {
		fail(c, err)
		return
	}
	if attendances == nil {
		attendances = []model.Attendance{}
	}
	c.JSON(http.StatusOK, attendances)
}

func (a *API) getAttendance(c *gin.Context) {
	attendance, err := a.attendances.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, attendance)
}

type attendanceUpdateRequest struct {
	Date     *string                    `json:"date"`
	Students *[]model.StudentAttendance `json:"students"`
	Status   *string                    `json:"status" binding:"omitempty,oneof=uploaded not_uploaded"`
}

func (a *API) updateAttendance(c *gin.Context) {
	var req attendanceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindingError(err))
		return
	}
	update := service.AttendanceUpdate{
		Students: req.Students,
		Status:   req.Status,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			fail(c, apperr.NewValidation("Invalid attendance data",
				apperr.FieldIssue{Field: "date", Message: "date must be an ISO date"}))
			return
		}
		update.Date = &date
	}
	attendance, err := a.attendances.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), update)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance updated successfully", "attendance": attendance})
}

func (a *API) deleteAttendance(c *gin.Context) {
	attendance, err := a.attendances.Delete(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if attendance.ImageID != "" {
		a.cache.DropImage(c.Request.Context(), attendance.ImageID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance and image deleted successfully"})
}
