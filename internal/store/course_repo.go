package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rollcall/internal/model"
)

const courseColumns = `id, name, university, user_id, day_of_week, start_time, end_time, location, students, created_at, updated_at`

// CreateCourse inserts a new course, assigning id and timestamps.
func (s *Store) CreateCourse(ctx context.Context, c *model.Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	students, err := json.Marshal(c.Students)
	if err != nil {
		return fmt.Errorf("marshal students: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO courses (`+courseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, c.ID, c.Name, c.University, c.UserID, c.DayOfWeek, c.StartTime, c.EndTime, c.Location, students, c.CreatedAt, c.UpdatedAt)
	return err
}

// GetCourse returns the course with the given id, or nil when absent.
func (s *Store) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	return scanCourse(s.db.QueryRowContext(ctx, `
		SELECT `+courseColumns+` FROM courses WHERE id = $1
	`, id))
}

func scanCourse(row *sql.Row) (*model.Course, error) {
	var c model.Course
	var students []byte
	err := row.Scan(&c.ID, &c.Name, &c.University, &c.UserID, &c.DayOfWeek, &c.StartTime, &c.EndTime, &c.Location, &students, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(students, &c.Students); err != nil {
		return nil, fmt.Errorf("unmarshal students: %w", err)
	}
	return &c, nil
}

// UpdateCourse persists the full course row.
func (s *Store) UpdateCourse(ctx context.Context, c *model.Course) error {
	c.UpdatedAt = time.Now().UTC()
	students, err := json.Marshal(c.Students)
	if err != nil {
		return fmt.Errorf("marshal students: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE courses
		SET name = $2, university = $3, day_of_week = $4, start_time = $5,
		    end_time = $6, location = $7, students = $8, updated_at = $9
		WHERE id = $1
	`, c.ID, c.Name, c.University, c.DayOfWeek, c.StartTime, c.EndTime, c.Location, students, c.UpdatedAt)
	return err
}

// DeleteCourseCascade deletes a course, its attendances and their images in
// one transaction.
func (s *Store) DeleteCourseCascade(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return deleteCoursesTx(ctx, tx, `SELECT id FROM courses WHERE id = $1`, id)
	})
}

// ListCoursesByUser returns every course owned by the user, newest first.
// When universityCode is non-empty only that university's courses are returned.
func (s *Store) ListCoursesByUser(ctx context.Context, userID, universityCode string) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE user_id = $1`
	args := []any{userID}
	if universityCode != "" {
		query += ` AND university = $2`
		args = append(args, universityCode)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var courses []model.Course
	for rows.Next() {
		var c model.Course
		var students []byte
		if err := rows.Scan(&c.ID, &c.Name, &c.University, &c.UserID, &c.DayOfWeek, &c.StartTime, &c.EndTime, &c.Location, &students, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(students, &c.Students); err != nil {
			return nil, fmt.Errorf("unmarshal students: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
