package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rollcall/internal/apperr"
	"rollcall/internal/model"
)

// AttendanceService manages session records, their images and marks.
type AttendanceService struct {
	store   AttendanceStore
	courses CourseStore
}

// NewAttendanceService creates an attendance service.
func NewAttendanceService(store AttendanceStore, courses CourseStore) *AttendanceService {
	return &AttendanceService{store: store, courses: courses}
}

// CreateAttendanceInput is the session creation payload, image included.
type CreateAttendanceInput struct {
	CourseID         string
	Date             time.Time
	Students         []model.StudentAttendance
	ImageData        []byte
	ImageContentType string
}

func validateMarks(students []model.StudentAttendance) []apperr.FieldIssue {
	var issues []apperr.FieldIssue
	for _, entry := range students {
		if entry.StudentName == "" {
			issues = append(issues, apperr.FieldIssue{Field: "students.student_name", Message: "Student name is required"})
		}
		if !model.ValidMark(entry.Status) {
			issues = append(issues, apperr.FieldIssue{Field: "students.status", Message: "Invalid attendance status: " + entry.Status})
		}
	}
	return issues
}

// Create stores the uploaded sheet image and the session referencing it.
// The image record is written first; both land in the same transaction.
func (s *AttendanceService) Create(ctx context.Context, userID string, in CreateAttendanceInput) (*model.Attendance, error) {
	if userID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Authentication failed")
	}
	if len(in.ImageData) == 0 {
		return nil, apperr.New(apperr.Validation, "Attendance image is required")
	}
	if len(in.Students) == 0 {
		return nil, apperr.NewValidation("Invalid attendance data",
			apperr.FieldIssue{Field: "students", Message: "At least one student is required"})
	}
	var issues []apperr.FieldIssue
	if _, err := uuid.Parse(in.CourseID); err != nil {
		issues = append(issues, apperr.FieldIssue{Field: "course_id", Message: "Invalid course ID format"})
	}
	if in.Date.IsZero() {
		issues = append(issues, apperr.FieldIssue{Field: "date", Message: "Date is required"})
	}
	issues = append(issues, validateMarks(in.Students)...)
	if len(issues) > 0 {
		return nil, apperr.NewValidation("Invalid attendance data", issues...)
	}

	course, err := authorizeCourse(ctx, s.courses, userID, in.CourseID)
	if err != nil {
		return nil, err
	}

	day := in.Date.Format("2006-01-02")
	img := &model.Image{
		Name:        "Attendance-" + day,
		Description: fmt.Sprintf("Attendance sheet for %s on %s", course.Name, day),
		ContentType: in.ImageContentType,
		Data:        in.ImageData,
	}
	attendance := &model.Attendance{
		CourseID: in.CourseID,
		Date:     in.Date,
		Status:   model.StatusUploaded,
		Students: in.Students,
	}
	if err := s.store.CreateAttendanceWithImage(ctx, attendance, img); err != nil {
		return nil, apperr.NewInternal("Attendance creation failed", err)
	}
	return attendance, nil
}

// Get returns one session. Access is gated through the parent course.
func (s *AttendanceService) Get(ctx context.Context, userID, id string) (*model.Attendance, error) {
	attendance, err := s.authorized(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return attendance, nil
}

// ListByCourse returns every session of an owned course, newest date first.
func (s *AttendanceService) ListByCourse(ctx context.Context, userID, courseID string) ([]model.Attendance, error) {
	if _, err := authorizeCourse(ctx, s.courses, userID, courseID); err != nil {
		return nil, err
	}
	attendances, err := s.store.ListAttendancesByCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.NewInternal("Failed to fetch attendances", err)
	}
	return attendances, nil
}

// AttendanceUpdate carries partial field replacements; nil fields are left alone.
type AttendanceUpdate struct {
	Date     *time.Time
	Students *[]model.StudentAttendance
	Status   *string
}

// Update applies a partial update to a session of an owned course.
func (s *AttendanceService) Update(ctx context.Context, userID, id string, in AttendanceUpdate) (*model.Attendance, error) {
	attendance, err := s.authorized(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var issues []apperr.FieldIssue
	if in.Students != nil {
		if markIssues := validateMarks(*in.Students); len(markIssues) > 0 {
			issues = append(issues, markIssues...)
		} else {
			attendance.Students = *in.Students
		}
	}
	if in.Status != nil {
		if !model.ValidStatus(*in.Status) {
			issues = append(issues, apperr.FieldIssue{Field: "status", Message: "Invalid status: " + *in.Status})
		} else {
			attendance.Status = *in.Status
		}
	}
	if in.Date != nil {
		attendance.Date = *in.Date
	}
	if len(issues) > 0 {
		return nil, apperr.NewValidation("Invalid attendance data", issues...)
	}

	if err := s.store.UpdateAttendance(ctx, attendance); err != nil {
		return nil, apperr.NewInternal("Failed to update attendance", err)
	}
	return attendance, nil
}

// Delete removes a session and its image. Returns the deleted record so the
// caller can evict cached image bytes.
func (s *AttendanceService) Delete(ctx context.Context, userID, id string) (*model.Attendance, error) {
	attendance, err := s.authorized(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteAttendanceWithImage(ctx, attendance.ID, attendance.ImageID); err != nil {
		return nil, apperr.NewInternal("Failed to delete attendance", err)
	}
	return attendance, nil
}

// Image returns stored image bytes. This lookup is deliberately not
// ownership-gated: possession of the opaque image id grants access.
func (s *AttendanceService) Image(ctx context.Context, id string) (*model.Image, error) {
	img, err := s.store.GetImage(ctx, id)
	if err != nil {
		return nil, apperr.NewInternal("Failed to retrieve image", err)
	}
	if img == nil || len(img.Data) == 0 {
		return nil, apperr.New(apperr.NotFound, "Image not found")
	}
	return img, nil
}

// authorized loads a session and gates it through its parent course.
// Existence of the session is checked before ownership of the course.
func (s *AttendanceService) authorized(ctx context.Context, userID, id string) (*model.Attendance, error) {
	if userID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Authentication failed")
	}
	attendance, err := s.store.GetAttendance(ctx, id)
	if err != nil {
		return nil, apperr.NewInternal("failed to load attendance", err)
	}
	if attendance == nil {
		return nil, apperr.New(apperr.NotFound, "Attendance not found")
	}
	if _, err := authorizeCourse(ctx, s.courses, userID, attendance.CourseID); err != nil {
		return nil, err
	}
	return attendance, nil
}
