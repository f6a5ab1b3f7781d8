package schema_test

import (
	"testing"

	"github.com/dalemusser/facetoface/internal/app/system/schema"
	"github.com/dalemusser/facetoface/internal/testutil"
)

func TestEnsureSQL_Idempotent(t *testing.T) {
	db := testutil.SetupTestSQL(t) // already ran EnsureSQL once
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := schema.EnsureSQL(ctx, db); err != nil {
		t.Fatalf("second EnsureSQL failed: %v", err)
	}

	for _, table := range []string{
		"users",
		"capability_assignments",
		"course",
		"facetoface",
		"course_modules",
		"facetoface_sessions",
		"facetoface_sessions_dates",
		"facetoface_signups",
		"facetoface_signups_status",
	} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestEnsureAll_WithoutMongo(t *testing.T) {
	db := testutil.SetupTestSQL(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := schema.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}
