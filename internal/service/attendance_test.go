package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"rollcall/internal/apperr"
	"rollcall/internal/model"
)

func setupCourse(t *testing.T, store *memStore) (userID string, course *model.Course, users *UserService, courses *CourseService, attendances *AttendanceService) {
	t.Helper()
	users, courses, attendances = newTestServices(store)
	userID = registerTestUser(t, users, "anna@example.com")
	var err error
	course, err = courses.Create(context.Background(), userID, CourseInput{
		Name:       "Analysis",
		University: "BME",
		Students:   []model.Student{{NeptunCode: "ABC123", Name: "Anna"}},
	})
	if err != nil {
		t.Fatalf("create course error: %v", err)
	}
	return userID, course, users, courses, attendances
}

func validCreateInput(courseID string) CreateAttendanceInput {
	return CreateAttendanceInput{
		CourseID:         courseID,
		Date:             time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Students:         []model.StudentAttendance{{StudentName: "Anna", NeptunCode: "ABC123", Status: model.MarkPresent}},
		ImageData:        []byte("fake image"),
		ImageContentType: "image/png",
	}
}

func TestCreateAttendanceRequiresImage(t *testing.T) {
	userID, course, _, _, attendances := setupCourse(t, newMemStore())
	in := validCreateInput(course.ID)
	in.ImageData = nil
	if _, err := attendances.Create(context.Background(), userID, in); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateAttendanceRequiresStudents(t *testing.T) {
	userID, course, _, _, attendances := setupCourse(t, newMemStore())
	in := validCreateInput(course.ID)
	in.Students = nil
	if _, err := attendances.Create(context.Background(), userID, in); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateAttendanceMalformedCourseID(t *testing.T) {
	userID, _, _, _, attendances := setupCourse(t, newMemStore())
	in := validCreateInput("not-a-uuid")
	if _, err := attendances.Create(context.Background(), userID, in); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateAttendanceCourseGate(t *testing.T) {
	store := newMemStore()
	userID, course, users, _, attendances := setupCourse(t, store)
	ctx := context.Background()

	// Absent course: not found.
	if _, err := attendances.Create(ctx, userID, validCreateInput(uuid.NewString())); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	// Someone else's course: forbidden.
	otherID := registerTestUser(t, users, "other@example.com")
	if _, err := attendances.Create(ctx, otherID, validCreateInput(course.ID)); !apperr.IsKind(err, apperr.Forbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreateAttendanceStoresImage(t *testing.T) {
	store := newMemStore()
	userID, course, _, _, attendances := setupCourse(t, store)

	attendance, err := attendances.Create(context.Background(), userID, validCreateInput(course.ID))
	if err != nil {
		t.Fatalf("create attendance error: %v", err)
	}
	if attendance.Status != model.StatusUploaded {
		t.Fatalf("expected status uploaded, got %s", attendance.Status)
	}
	img := store.images[attendance.ImageID]
	if img == nil {
		t.Fatalf("expected image record")
	}
	if img.Name != "Attendance-2026-03-09" {
		t.Fatalf("unexpected image name %q", img.Name)
	}
	if img.ContentType != "image/png" || string(img.Data) != "fake image" {
		t.Fatalf("image payload not stored: %+v", img)
	}
}

func TestGetAttendanceOwnershipGated(t *testing.T) {
	store := newMemStore()
	userID, course, users, _, attendances := setupCourse(t, store)
	ctx := context.Background()

	created, err := attendances.Create(ctx, userID, validCreateInput(course.ID))
	if err != nil {
		t.Fatalf("create attendance error: %v", err)
	}

	otherID := registerTestUser(t, users, "other@example.com")
	if _, err := attendances.Get(ctx, otherID, created.ID); !apperr.IsKind(err, apperr.Forbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
	if _, err := attendances.Get(ctx, otherID, uuid.NewString()); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected not found for absent attendance, got %v", err)
	}
	got, err := attendances.Get(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("owner read error: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("unexpected attendance returned")
	}
}

func TestUpdateAttendance(t *testing.T) {
	store := newMemStore()
	userID, course, users, _, attendances := setupCourse(t, store)
	ctx := context.Background()

	created, err := attendances.Create(ctx, userID, validCreateInput(course.ID))
	if err != nil {
		t.Fatalf("create attendance error: %v", err)
	}

	badStatus := "lost"
	if _, err := attendances.Update(ctx, userID, created.ID, AttendanceUpdate{Status: &badStatus}); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected validation error for bad status, got %v", err)
	}

	otherID := registerTestUser(t, users, "other@example.com")
	status := model.StatusNotUploaded
	if _, err := attendances.Update(ctx, otherID, created.ID, AttendanceUpdate{Status: &status}); !apperr.IsKind(err, apperr.Forbidden) {
		t.Fatalf("expected forbidden for non-owner update, got %v", err)
	}

	marks := []model.StudentAttendance{{StudentName: "Anna", NeptunCode: "ABC123", Status: model.MarkExcused}}
	updated, err := attendances.Update(ctx, userID, created.ID, AttendanceUpdate{Status: &status, Students: &marks})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Status != model.StatusNotUploaded || updated.Students[0].Status != model.MarkExcused {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestDeleteAttendanceRemovesImage(t *testing.T) {
	store := newMemStore()
	userID, course, _, _, attendances := setupCourse(t, store)
	ctx := context.Background()

	created, err := attendances.Create(ctx, userID, validCreateInput(course.ID))
	if err != nil {
		t.Fatalf("create attendance error: %v", err)
	}

	if _, err := attendances.Delete(ctx, userID, uuid.NewString()); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected not found for absent attendance, got %v", err)
	}

	deleted, err := attendances.Delete(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if store.attendances[created.ID] != nil {
		t.Fatalf("attendance still present after delete")
	}
	if store.images[deleted.ImageID] != nil {
		t.Fatalf("image still present after delete")
	}
}

func TestImageLookupIsPublic(t *testing.T) {
	store := newMemStore()
	userID, course, _, _, attendances := setupCourse(t, store)
	ctx := context.Background()

	created, err := attendances.Create(ctx, userID, validCreateInput(course.ID))
	if err != nil {
		t.Fatalf("create attendance error: %v", err)
	}

	// No requester identity needed, only the image id.
	img, err := attendances.Image(ctx, created.ImageID)
	if err != nil {
		t.Fatalf("image lookup error: %v", err)
	}
	if string(img.Data) != "fake image" {
		t.Fatalf("unexpected image bytes")
	}
	if _, err := attendances.Image(ctx, uuid.NewString()); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected not found for unknown image, got %v", err)
	}
}
