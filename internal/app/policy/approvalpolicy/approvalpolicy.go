// Package approvalpolicy decides who may approve a face-to-face session
// request.
//
// Authorization rules:
//   - Site admins may approve any user's request
//   - Anyone else needs mod/facetoface:approveuser, granted either site wide
//     or in the requesting user's context
//   - Visitors (not signed in) may approve nothing
package approvalpolicy

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/facetoface/internal/app/system/authz"
	"github.com/dalemusser/facetoface/internal/domain/models"
)

// Viewer is the user looking at (or submitting) the approval page.
type Viewer struct {
	ID   int64
	Name string
	Role string
}

// ViewerFromRequest returns the signed-in user as a Viewer.
func ViewerFromRequest(r *http.Request) (Viewer, bool) {
	role, name, id, ok := authz.UserCtx(r)
	if !ok {
		return Viewer{}, false
	}
	return Viewer{ID: id, Name: name, Role: role}, true
}

// CapabilityStore answers capability lookups. userstore.Store implements it.
type CapabilityStore interface {
	HasCapability(ctx context.Context, userID int64, capability string, contextUserID int64) (bool, error)
}

// Checker implements the approval authorization check.
type Checker struct {
	caps CapabilityStore
}

func New(caps CapabilityStore) *Checker {
	return &Checker{caps: caps}
}

// CanApprove reports whether viewer may approve targetUserID's request.
func (c *Checker) CanApprove(ctx context.Context, viewer Viewer, targetUserID int64) (bool, error) {
	if viewer.ID <= 0 || targetUserID <= 0 {
		return false, nil
	}
	if viewer.Role == models.RoleAdmin {
		return true, nil
	}
	ok, err := c.caps.HasCapability(ctx, viewer.ID, models.CapApproveUser, targetUserID)
	if err != nil {
		return false, fmt.Errorf("approve capability for user %d: %w", targetUserID, err)
	}
	return ok, nil
}
