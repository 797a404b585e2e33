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

const attendanceColumns = `id, course_id, date, image_id, status, students, created_at, updated_at`

// CreateAttendanceWithImage inserts the image and the attendance referencing
// it in one transaction, assigning ids and timestamps.
func (s *Store) CreateAttendanceWithImage(ctx context.Context, a *model.Attendance, img *model.Image) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	img.CreatedAt = now
	a.ImageID = img.ID
	a.CreatedAt = now
	a.UpdatedAt = now
	students, err := json.Marshal(a.Students)
	if err != nil {
		return fmt.Errorf("marshal students: %w", err)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO images (id, name, description, content_type, data, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, img.ID, img.Name, img.Description, img.ContentType, img.Data, img.CreatedAt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO attendances (`+attendanceColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, a.ID, a.CourseID, a.Date, a.ImageID, a.Status, students, a.CreatedAt, a.UpdatedAt)
		return err
	})
}

// GetAttendance returns the attendance with the given id, or nil when absent.
func (s *Store) GetAttendance(ctx context.Context, id string) (*model.Attendance, error) {
	return scanAttendance(s.db.QueryRowContext(ctx, `
		SELECT `+attendanceColumns+` FROM attendances WHERE id = $1
	`, id))
}

func scanAttendance(row *sql.Row) (*model.Attendance, error) {
	var a model.Attendance
	var students []byte
	var imageID sql.NullString
	err := row.Scan(&a.ID, &a.CourseID, &a.Date, &imageID, &a.Status, &students, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.ImageID = imageID.String
	if err := json.Unmarshal(students, &a.Students); err != nil {
		return nil, fmt.Errorf("unmarshal students: %w", err)
	}
	return &a, nil
}

// ListAttendancesByCourse returns every session of a course, newest date first.
func (s *Store) ListAttendancesByCourse(ctx context.Context, courseID string) ([]model.Attendance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+attendanceColumns+` FROM attendances WHERE course_id = $1 ORDER BY date DESC
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var attendances []model.Attendance
	for rows.Next() {
		var a model.Attendance
		var students []byte
		var imageID sql.NullString
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Date, &imageID, &a.Status, &students, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.ImageID = imageID.String
		if err := json.Unmarshal(students, &a.Students); err != nil {
			return nil, fmt.Errorf("unmarshal students: %w", err)
		}
		attendances = append(attendances, a)
	}
	return attendances, rows.Err()
}

// UpdateAttendance persists date, students and status of a session.
func (s *Store) UpdateAttendance(ctx context.Context, a *model.Attendance) error {
	a.UpdatedAt = time.Now().UTC()
	students, err := json.Marshal(a.Students)
	if err != nil {
		return fmt.Errorf("marshal students: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE attendances SET date = $2, students = $3, status = $4, updated_at = $5 WHERE id = $1
	`, a.ID, a.Date, students, a.Status, a.UpdatedAt)
	return err
}

// DeleteAttendanceWithImage removes a session and its image in one transaction.
func (s *Store) DeleteAttendanceWithImage(ctx context.Context, id, imageID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM attendances WHERE id = $1`, id); err != nil {
			return err
		}
		if imageID != "" {
			if _, err := tx.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, imageID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetImage returns the stored image, or nil when absent.
func (s *Store) GetImage(ctx context.Context, id string) (*model.Image, error) {
	var img model.Image
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, content_type, data, created_at FROM images WHERE id = $1
	`, id).Scan(&img.ID, &img.Name, &img.Description, &img.ContentType, &img.Data, &img.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &img, nil
}
