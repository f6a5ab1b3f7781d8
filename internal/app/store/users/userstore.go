package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/facetoface/internal/domain/models"
)

// ErrNotFound is returned when no user matches.
var ErrNotFound = errors.New("user not found")

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, username, firstname, lastname, email, role, status, password_hash, timecreated, timemodified`

// GetByID loads a user by ID.
func (s *Store) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByUsername looks up a user by case-insensitive login ID.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`,
		strings.ToLower(strings.TrimSpace(username)))
}

func (s *Store) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var (
		u                 models.User
		created, modified int64
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email,
		&u.Role, &u.Status, &u.PasswordHash, &created, &modified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	u.UpdatedAt = time.Unix(modified, 0).UTC()
	return &u, nil
}

// HasCapability reports whether userID holds capability either site wide
// or in the context of contextUserID.
func (s *Store) HasCapability(ctx context.Context, userID int64, capability string, contextUserID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM capability_assignments
		WHERE userid = ? AND capability = ?
		  AND (context_userid IS NULL OR context_userid = ?)`,
		userID, capability, contextUserID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check capability: %w", err)
	}
	return n > 0, nil
}

// Grant assigns a capability. A nil contextUserID grants it site wide.
func (s *Store) Grant(ctx context.Context, a models.CapabilityAssignment) error {
	if a.UserID <= 0 || a.Capability == "" {
		return errors.New("grant needs a user and a capability")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO capability_assignments (userid, capability, context_userid) VALUES (?, ?, ?)`,
		a.UserID, a.Capability, a.ContextUserID)
	return err
}
