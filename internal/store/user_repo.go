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

// CreateUser inserts a new user, assigning id and timestamps.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	universities, err := json.Marshal(u.Universities)
	if err != nil {
		return fmt.Errorf("marshal universities: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, universities, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Name, u.Email, u.PasswordHash, universities, u.CreatedAt, u.UpdatedAt)
	return err
}

// GetUserByEmail returns the user with the given email, or nil when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, universities, created_at, updated_at
		FROM users WHERE email = $1
	`, email))
}

// GetUserByID returns the user with the given id, or nil when absent.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, universities, created_at, updated_at
		FROM users WHERE id = $1
	`, id))
}

func (s *Store) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var universities []byte
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &universities, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(universities, &u.Universities); err != nil {
		return nil, fmt.Errorf("unmarshal universities: %w", err)
	}
	return &u, nil
}

// SetUserUniversities persists a user's declared university list.
func (s *Store) SetUserUniversities(ctx context.Context, userID string, universities []string) error {
	encoded, err := json.Marshal(universities)
	if err != nil {
		return fmt.Errorf("marshal universities: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE users SET universities = $2, updated_at = NOW() WHERE id = $1
	`, userID, encoded)
	return err
}

// ReplaceUserUniversities sets the new university list and cascades: for
// every removed university, that university's courses, their attendances and
// the attendances' images are deleted, all in one transaction.
func (s *Store) ReplaceUserUniversities(ctx context.Context, userID string, universities, removed []string) error {
	encoded, err := json.Marshal(universities)
	if err != nil {
		return fmt.Errorf("marshal universities: %w", err)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, uni := range removed {
			if err := deleteCoursesTx(ctx, tx, `
				SELECT id FROM courses WHERE user_id = $1 AND university = $2
			`, userID, uni); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE users SET universities = $2, updated_at = NOW() WHERE id = $1
		`, userID, encoded)
		return err
	})
}

// deleteCoursesTx deletes every course matched by selectQuery together with
// its attendances and their images.
func deleteCoursesTx(ctx context.Context, tx *sql.Tx, selectQuery string, args ...any) error {
	rows, err := tx.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return err
	}
	var courseIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		courseIDs = append(courseIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, courseID := range courseIDs {
		imageIDs, err := courseImageIDsTx(ctx, tx, courseID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM attendances WHERE course_id = $1`, courseID); err != nil {
			return err
		}
		for _, imageID := range imageIDs {
			if _, err := tx.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, imageID); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, courseID); err != nil {
			return err
		}
	}
	return nil
}

func courseImageIDsTx(ctx context.Context, tx *sql.Tx, courseID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT image_id FROM attendances WHERE course_id = $1 AND image_id IS NOT NULL
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
