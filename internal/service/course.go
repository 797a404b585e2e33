package service

import (
	"context"
	"sort"

	"rollcall/internal/apperr"
	"rollcall/internal/model"
	"rollcall/internal/university"
)

// CourseService manages course lifecycle and statistics.
type CourseService struct {
	store       CourseStore
	users       UserStore
	attendances AttendanceStore
}

// NewCourseService creates a course service.
func NewCourseService(store CourseStore, users UserStore, attendances AttendanceStore) *CourseService {
	return &CourseService{store: store, users: users, attendances: attendances}
}

// CourseInput is the course creation payload.
type CourseInput struct {
	Name       string
	University string
	DayOfWeek  string
	StartTime  string
	EndTime    string
	Location   string
	Students   []model.Student
}

func validateStudents(students []model.Student) []apperr.FieldIssue {
	var issues []apperr.FieldIssue
	seen := make(map[string]bool, len(students))
	for _, student := range students {
		if len([]rune(student.NeptunCode)) != 6 {
			issues = append(issues, apperr.FieldIssue{Field: "students.neptun_code", Message: "Neptun code must be exactly 6 characters"})
		} else if seen[student.NeptunCode] {
			issues = append(issues, apperr.FieldIssue{Field: "students.neptun_code", Message: "Duplicate neptun code: " + student.NeptunCode})
		}
		seen[student.NeptunCode] = true
		if student.Name == "" {
			issues = append(issues, apperr.FieldIssue{Field: "students.name", Message: "Student name is required"})
		}
	}
	return issues
}

// Create persists a new course owned by the requester. The university must
// be in the catalog (validation) and declared by the requester (forbidden).
func (s *CourseService) Create(ctx context.Context, userID string, in CourseInput) (*model.Course, error) {
	if userID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Access denied")
	}

	var issues []apperr.FieldIssue
	if in.Name == "" {
		issues = append(issues, apperr.FieldIssue{Field: "name", Message: "Name is required"})
	}
	if !university.Valid(in.University) {
		issues = append(issues, apperr.FieldIssue{Field: "university", Message: "Invalid university"})
	}
	issues = append(issues, validateStudents(in.Students)...)
	if len(issues) > 0 {
		return nil, apperr.NewValidation("Invalid course data", issues...)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.NewInternal("Course creation failed", err)
	}
	declared := false
	if user != nil {
		for _, code := range user.Universities {
			if code == in.University {
				declared = true
				break
			}
		}
	}
	if !declared {
		return nil, apperr.New(apperr.Forbidden, "User does not belong to the specified university")
	}

	course := &model.Course{
		Name:       in.Name,
		University: in.University,
		UserID:     userID,
		DayOfWeek:  in.DayOfWeek,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Location:   in.Location,
		Students:   in.Students,
	}
	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, apperr.NewInternal("Course creation failed", err)
	}
	return course, nil
}

// Get returns an owned course with its roster sorted by student name.
func (s *CourseService) Get(ctx context.Context, userID, courseID string) (*model.Course, error) {
	course, err := authorizeCourse(ctx, s.store, userID, courseID)
	if err != nil {
		return nil, err
	}
	sorted := append([]model.Student{}, course.Students...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	course.Students = sorted
	return course, nil
}

// CourseUpdate carries partial field replacements; nil fields are left alone.
type CourseUpdate struct {
	Name       *string
	University *string
	DayOfWeek  *string
	StartTime  *string
	EndTime    *string
	Location   *string
	Students   *[]model.Student
}

// Update applies a partial update to an owned course.
func (s *CourseService) Update(ctx context.Context, userID, courseID string, in CourseUpdate) (*model.Course, error) {
	course, err := authorizeCourse(ctx, s.store, userID, courseID)
	if err != nil {
		return nil, err
	}

	var issues []apperr.FieldIssue
	if in.Name != nil {
		if *in.Name == "" {
			issues = append(issues, apperr.FieldIssue{Field: "name", Message: "Name is required"})
		} else {
			course.Name = *in.Name
		}
	}
	if in.University != nil {
		if !university.Valid(*in.University) {
			issues = append(issues, apperr.FieldIssue{Field: "university", Message: "Invalid university"})
		} else {
			course.University = *in.University
		}
	}
	if in.Students != nil {
		if studentIssues := validateStudents(*in.Students); len(studentIssues) > 0 {
			issues = append(issues, studentIssues...)
		} else {
			course.Students = *in.Students
		}
	}
	if in.DayOfWeek != nil {
		course.DayOfWeek = *in.DayOfWeek
	}
	if in.StartTime != nil {
		course.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		course.EndTime = *in.EndTime
	}
	if in.Location != nil {
		course.Location = *in.Location
	}
	if len(issues) > 0 {
		return nil, apperr.NewValidation("Invalid course data", issues...)
	}

	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return nil, apperr.NewInternal("Failed to update course", err)
	}
	return course, nil
}

// Delete removes an owned course together with its attendances and their images.
func (s *CourseService) Delete(ctx context.Context, userID, courseID string) error {
	if _, err := authorizeCourse(ctx, s.store, userID, courseID); err != nil {
		return err
	}
	if err := s.store.DeleteCourseCascade(ctx, courseID); err != nil {
		return apperr.NewInternal("Failed to delete course", err)
	}
	return nil
}

// ListForUser returns the requester's courses, optionally filtered by university.
func (s *CourseService) ListForUser(ctx context.Context, userID, universityCode string) ([]model.Course, error) {
	if userID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Authentication failed")
	}
	courses, err := s.store.ListCoursesByUser(ctx, userID, universityCode)
	if err != nil {
		return nil, apperr.NewInternal("Failed to list courses", err)
	}
	return courses, nil
}

// Stats computes per-student attendance statistics for an owned course.
func (s *CourseService) Stats(ctx context.Context, userID, courseID string) (*model.CourseStats, error) {
	course, err := authorizeCourse(ctx, s.store, userID, courseID)
	if err != nil {
		return nil, err
	}
	attendances, err := s.attendances.ListAttendancesByCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.NewInternal("Failed to fetch course statistics", err)
	}
	stats := aggregateStats(course, attendances)
	return &stats, nil
}

// aggregateStats folds every session's marks into per-student counters.
// Counters are keyed by the course's current roster names; marks for names
// no longer on the roster are ignored. The fold is order-independent.
func aggregateStats(course *model.Course, attendances []model.Attendance) model.CourseStats {
	totalSessions := len(attendances)
	byName := make(map[string]*model.StudentStats, len(course.Students))
	for _, student := range course.Students {
		byName[student.Name] = &model.StudentStats{
			StudentName:   student.Name,
			NeptunCode:    student.NeptunCode,
			TotalSessions: totalSessions,
		}
	}

	for _, attendance := range attendances {
		for _, entry := range attendance.Students {
			stats, ok := byName[entry.StudentName]
			if !ok {
				continue
			}
			switch entry.Status {
			case model.MarkPresent:
				stats.Attended++
			case model.MarkAbsent:
				stats.Missed++
			case model.MarkLate:
				stats.Late++
			case model.MarkExcused:
				stats.Excused++
			}
		}
	}

	students := make([]model.StudentStats, 0, len(byName))
	for _, stats := range byName {
		students = append(students, *stats)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].StudentName < students[j].StudentName })

	return model.CourseStats{
		CourseName:    course.Name,
		TotalSessions: totalSessions,
		Students:      students,
	}
}
