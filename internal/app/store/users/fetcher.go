package userstore

import (
	"context"
	"database/sql"

	"github.com/dalemusser/facetoface/internal/app/system/auth"
	"github.com/dalemusser/facetoface/internal/app/system/timeouts"
	"github.com/dalemusser/facetoface/internal/domain/models"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	store *Store
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *sql.DB) *Fetcher {
	return &Fetcher{store: New(db)}
}

// FetchUser retrieves a user by ID and returns nil if the user is not found,
// suspended, or if any error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, userID int64) *auth.SessionUser {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := f.store.GetByID(ctx, userID)
	if err != nil {
		return nil
	}
	if u.Status != models.UserActive {
		return nil
	}
	return &auth.SessionUser{
		ID:      u.ID,
		Name:    u.FullName(),
		LoginID: u.Username,
		Role:    u.Role,
	}
}
