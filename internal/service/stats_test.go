package service

import (
	"reflect"
	"testing"

	"rollcall/internal/model"
)

func statsFixture() (*model.Course, []model.Attendance) {
	course := &model.Course{
		Name: "Analysis",
		Students: []model.Student{
			{NeptunCode: "AAA111", Name: "Anna"},
			{NeptunCode: "BBB222", Name: "Bela"},
		},
	}
	attendances := []model.Attendance{
		{
			CourseID: course.ID,
			Students: []model.StudentAttendance{
				{StudentName: "Anna", NeptunCode: "AAA111", Status: model.MarkPresent},
				{StudentName: "Bela", NeptunCode: "BBB222", Status: model.MarkLate},
			},
		},
		{
			CourseID: course.ID,
			Students: []model.StudentAttendance{
				{StudentName: "Anna", NeptunCode: "AAA111", Status: model.MarkPresent},
				{StudentName: "Bela", NeptunCode: "BBB222", Status: model.MarkAbsent},
			},
		},
	}
	return course, attendances
}

func TestAggregateStatsExample(t *testing.T) {
	course, attendances := statsFixture()
	stats := aggregateStats(course, attendances)

	if stats.CourseName != "Analysis" {
		t.Fatalf("expected course name, got %q", stats.CourseName)
	}
	if stats.TotalSessions != 2 {
		t.Fatalf("expected 2 sessions, got %d", stats.TotalSessions)
	}
	want := []model.StudentStats{
		{StudentName: "Anna", NeptunCode: "AAA111", TotalSessions: 2, Attended: 2},
		{StudentName: "Bela", NeptunCode: "BBB222", TotalSessions: 2, Missed: 1, Late: 1},
	}
	if !reflect.DeepEqual(stats.Students, want) {
		t.Fatalf("unexpected stats:\n got %+v\nwant %+v", stats.Students, want)
	}
}

func TestAggregateStatsOrderInvariant(t *testing.T) {
	course, attendances := statsFixture()
	forward := aggregateStats(course, attendances)

	reversed := []model.Attendance{attendances[1], attendances[0]}
	backward := aggregateStats(course, reversed)

	if !reflect.DeepEqual(forward, backward) {
		t.Fatalf("stats depend on attendance order:\n forward %+v\nbackward %+v", forward, backward)
	}
}

func TestAggregateStatsIgnoresNonRosterStudents(t *testing.T) {
	course, attendances := statsFixture()
	attendances[0].Students = append(attendances[0].Students, model.StudentAttendance{
		StudentName: "Dropped Out",
		NeptunCode:  "ZZZ999",
		Status:      model.MarkPresent,
	})

	stats := aggregateStats(course, attendances)
	if len(stats.Students) != 2 {
		t.Fatalf("expected only roster students, got %d entries", len(stats.Students))
	}
	for _, entry := range stats.Students {
		if entry.StudentName == "Dropped Out" {
			t.Fatalf("non-roster student leaked into stats")
		}
	}
}

func TestAggregateStatsEmptyCourse(t *testing.T) {
	course := &model.Course{Name: "Empty"}
	stats := aggregateStats(course, nil)
	if stats.TotalSessions != 0 || len(stats.Students) != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}
