// Package model defines the persisted entities of the attendance tracker.
package model

import "time"

// User owns courses and declares universities from the fixed catalog.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Universities []string  `json:"university"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Student is one roster entry of a course.
type Student struct {
	NeptunCode string `json:"neptun_code"`
	Name       string `json:"name"`
}

// Course groups a roster of students under one owning user and university.
// Schedule fields are optional metadata.
type Course struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	University string    `json:"university"`
	UserID     string    `json:"user_id"`
	DayOfWeek  string    `json:"dayOfWeek,omitempty"`
	StartTime  string    `json:"startTime,omitempty"`
	EndTime    string    `json:"endTime,omitempty"`
	Location   string    `json:"location,omitempty"`
	Students   []Student `json:"students"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Attendance marks recorded for one student in one session.
const (
	MarkPresent = "Present"
	MarkAbsent  = "Absent"
	MarkLate    = "Late"
	MarkExcused = "Excused"
)

// ValidMark reports whether s is one of the accepted attendance marks.
func ValidMark(s string) bool {
	switch s {
	case MarkPresent, MarkAbsent, MarkLate, MarkExcused:
		return true
	}
	return false
}

// StudentAttendance is one student's mark within a session.
type StudentAttendance struct {
	StudentName string `json:"student_name"`
	NeptunCode  string `json:"neptun_code"`
	Status      string `json:"status"`
}

// Attendance sheet states.
const (
	StatusUploaded    = "uploaded"
	StatusNotUploaded = "not_uploaded"
)

// ValidStatus reports whether s is an accepted attendance-sheet state.
func ValidStatus(s string) bool {
	return s == StatusUploaded || s == StatusNotUploaded
}

// Attendance is one session record of a course, referencing the uploaded sheet image.
type Attendance struct {
	ID        string              `json:"id"`
	CourseID  string              `json:"course_id"`
	Date      time.Time           `json:"date"`
	ImageID   string              `json:"attendanceImage"`
	Status    string              `json:"status"`
	Students  []StudentAttendance `json:"students"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Image is the stored attendance-sheet upload. Data is omitted from JSON;
// the bytes are served through the image endpoint.
type Image struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"desc,omitempty"`
	ContentType string    `json:"-"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// StudentStats are the per-student counters of the statistics aggregation.
type StudentStats struct {
	StudentName   string `json:"student_name"`
	NeptunCode    string `json:"neptun_code"`
	TotalSessions int    `json:"totalSessions"`
	Attended      int    `json:"attended"`
	Missed        int    `json:"missed"`
	Late          int    `json:"late"`
	Excused       int    `json:"excused"`
}

// CourseStats is the statistics response for one course.
type CourseStats struct {
	CourseName    string         `json:"courseName"`
	TotalSessions int            `json:"totalSessions"`
	Students      []StudentStats `json:"students"`
}
