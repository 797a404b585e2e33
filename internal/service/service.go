// Package service implements the business rules of the attendance tracker:
// registration and login, the ownership gate on the User → Course →
// Attendance → Image chain, cascading deletes and the statistics fold.
package service

import (
	"context"

	"rollcall/internal/apperr"
	"rollcall/internal/model"
)

// UserStore is the persistence surface needed by UserService.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	SetUserUniversities(ctx context.Context, userID string, universities []string) error
	ReplaceUserUniversities(ctx context.Context, userID string, universities, removed []string) error
}

// CourseStore is the persistence surface needed for courses.
type CourseStore interface {
	CreateCourse(ctx context.Context, c *model.Course) error
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	UpdateCourse(ctx context.Context, c *model.Course) error
	DeleteCourseCascade(ctx context.Context, id string) error
	ListCoursesByUser(ctx context.Context, userID, universityCode string) ([]model.Course, error)
}

// AttendanceStore is the persistence surface needed for attendances and images.
type AttendanceStore interface {
	CreateAttendanceWithImage(ctx context.Context, a *model.Attendance, img *model.Image) error
	GetAttendance(ctx context.Context, id string) (*model.Attendance, error)
	ListAttendancesByCourse(ctx context.Context, courseID string) ([]model.Attendance, error)
	UpdateAttendance(ctx context.Context, a *model.Attendance) error
	DeleteAttendanceWithImage(ctx context.Context, id, imageID string) error
	GetImage(ctx context.Context, id string) (*model.Image, error)
}

// authorizeCourse resolves a course and verifies the requester owns it.
// The existence check deliberately precedes the ownership check: acting on
// an absent course answers "not found" even for non-owners.
func authorizeCourse(ctx context.Context, courses CourseStore, userID, courseID string) (*model.Course, error) {
	if userID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Authentication failed")
	}
	course, err := courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.NewInternal("failed to load course", err)
	}
	if course == nil {
		return nil, apperr.New(apperr.NotFound, "Course not found")
	}
	if course.UserID != userID {
		return nil, apperr.New(apperr.Forbidden, "You do not have access to this course")
	}
	return course, nil
}
