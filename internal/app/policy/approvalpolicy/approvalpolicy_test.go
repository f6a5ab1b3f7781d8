package approvalpolicy_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/facetoface/internal/app/policy/approvalpolicy"
	userstore "github.com/dalemusser/facetoface/internal/app/store/users"
	"github.com/dalemusser/facetoface/internal/app/system/auth"
	"github.com/dalemusser/facetoface/internal/domain/models"
	"github.com/dalemusser/facetoface/internal/testutil"
)

type capsFunc func(ctx context.Context, userID int64, capability string, contextUserID int64) (bool, error)

func (f capsFunc) HasCapability(ctx context.Context, userID int64, capability string, contextUserID int64) (bool, error) {
	return f(ctx, userID, capability, contextUserID)
}

func TestCanApprove_AdminBypassesLookup(t *testing.T) {
	called := false
	c := approvalpolicy.New(capsFunc(func(context.Context, int64, string, int64) (bool, error) {
		called = true
		return false, nil
	}))

	ok, err := c.CanApprove(context.Background(), approvalpolicy.Viewer{ID: 1, Role: models.RoleAdmin}, 9)
	if err != nil {
		t.Fatalf("CanApprove: %v", err)
	}
	if !ok {
		t.Error("expected admin to be allowed")
	}
	if called {
		t.Error("expected no capability lookup for admin")
	}
}

func TestCanApprove_InvalidIDs(t *testing.T) {
	c := approvalpolicy.New(capsFunc(func(context.Context, int64, string, int64) (bool, error) {
		return true, nil
	}))
	ctx := context.Background()

	if ok, _ := c.CanApprove(ctx, approvalpolicy.Viewer{}, 9); ok {
		t.Error("expected visitor to be denied")
	}
	if ok, _ := c.CanApprove(ctx, approvalpolicy.Viewer{ID: 1, Role: models.RoleTrainer}, 0); ok {
		t.Error("expected missing target to be denied")
	}
}

func TestCanApprove_StoreError(t *testing.T) {
	boom := errors.New("db down")
	c := approvalpolicy.New(capsFunc(func(context.Context, int64, string, int64) (bool, error) {
		return false, boom
	}))

	ok, err := c.CanApprove(context.Background(), approvalpolicy.Viewer{ID: 1, Role: models.RoleTrainer}, 9)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
	if ok {
		t.Error("expected deny on error")
	}
}

func TestCanApprove_ScopedGrant(t *testing.T) {
	db := testutil.SetupTestSQL(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	trainer := fx.CreateUser(ctx, "Tina", "Trainer", models.RoleTrainer)
	seven := fx.CreateUser(ctx, "Amy", "Seven", models.RoleUser)
	nine := fx.CreateUser(ctx, "Bob", "Nine", models.RoleUser)
	fx.GrantCapability(ctx, trainer.ID, models.CapApproveUser, &seven.ID)

	c := approvalpolicy.New(userstore.New(db))
	viewer := approvalpolicy.Viewer{ID: trainer.ID, Role: trainer.Role}

	if ok, err := c.CanApprove(ctx, viewer, seven.ID); err != nil || !ok {
		t.Errorf("expected approve allowed for scoped user, got %v, %v", ok, err)
	}
	if ok, err := c.CanApprove(ctx, viewer, nine.ID); err != nil || ok {
		t.Errorf("expected approve denied for other user, got %v, %v", ok, err)
	}
}

func TestViewerFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := approvalpolicy.ViewerFromRequest(req); ok {
		t.Error("expected no viewer without a user")
	}

	req = auth.WithTestUser(req, &auth.SessionUser{ID: 4, Name: "Mia Manager", Role: "Manager"})
	v, ok := approvalpolicy.ViewerFromRequest(req)
	if !ok {
		t.Fatal("expected a viewer")
	}
	if v.ID != 4 || v.Role != models.RoleManager || v.Name != "Mia Manager" {
		t.Errorf("unexpected viewer %+v", v)
	}
}
