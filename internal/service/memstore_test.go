package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rollcall/internal/model"
)

// memStore is an in-memory stand-in for store.Store used by the service tests.
type memStore struct {
	users       map[string]*model.User
	courses     map[string]*model.Course
	attendances map[string]*model.Attendance
	images      map[string]*model.Image
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*model.User),
		courses:     make(map[string]*model.Course),
		attendances: make(map[string]*model.Attendance),
		images:      make(map[string]*model.Image),
	}
}

func (m *memStore) CreateUser(_ context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}

func (m *memStore) SetUserUniversities(_ context.Context, userID string, universities []string) error {
	if u, ok := m.users[userID]; ok {
		u.Universities = universities
	}
	return nil
}

func (m *memStore) ReplaceUserUniversities(ctx context.Context, userID string, universities, removed []string) error {
	for _, uni := range removed {
		for id, course := range m.courses {
			if course.UserID == userID && course.University == uni {
				m.deleteCourseCascade(id)
			}
		}
	}
	return m.SetUserUniversities(ctx, userID, universities)
}

func (m *memStore) CreateCourse(_ context.Context, c *model.Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	m.courses[c.ID] = c
	return nil
}

func (m *memStore) GetCourse(_ context.Context, id string) (*model.Course, error) {
	return m.courses[id], nil
}

func (m *memStore) UpdateCourse(_ context.Context, c *model.Course) error {
	m.courses[c.ID] = c
	return nil
}

func (m *memStore) deleteCourseCascade(id string) {
	for attID, att := range m.attendances {
		if att.CourseID == id {
			delete(m.images, att.ImageID)
			delete(m.attendances, attID)
		}
	}
	delete(m.courses, id)
}

func (m *memStore) DeleteCourseCascade(_ context.Context, id string) error {
	m.deleteCourseCascade(id)
	return nil
}

func (m *memStore) ListCoursesByUser(_ context.Context, userID, universityCode string) ([]model.Course, error) {
	var courses []model.Course
	for _, c := range m.courses {
		if c.UserID != userID {
			continue
		}
		if universityCode != "" && c.University != universityCode {
			continue
		}
		courses = append(courses, *c)
	}
	return courses, nil
}

func (m *memStore) CreateAttendanceWithImage(_ context.Context, a *model.Attendance, img *model.Image) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	img.CreatedAt = time.Now().UTC()
	a.ImageID = img.ID
	a.CreatedAt = img.CreatedAt
	a.UpdatedAt = img.CreatedAt
	m.images[img.ID] = img
	m.attendances[a.ID] = a
	return nil
}

func (m *memStore) GetAttendance(_ context.Context, id string) (*model.Attendance, error) {
	return m.attendances[id], nil
}

func (m *memStore) ListAttendancesByCourse(_ context.Context, courseID string) ([]model.Attendance, error) {
	var attendances []model.Attendance
	for _, a := range m.attendances {
		if a.CourseID == courseID {
			attendances = append(attendances, *a)
		}
	}
	return attendances, nil
}

func (m *memStore) UpdateAttendance(_ context.Context, a *model.Attendance) error {
	m.attendances[a.ID] = a
	return nil
}

func (m *memStore) DeleteAttendanceWithImage(_ context.Context, id, imageID string) error {
	delete(m.attendances, id)
	delete(m.images, imageID)
	return nil
}

func (m *memStore) GetImage(_ context.Context, id string) (*model.Image, error) {
	return m.images[id], nil
}
