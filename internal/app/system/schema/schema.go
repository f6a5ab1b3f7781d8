// internal/app/system/schema/schema.go
package schema

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"strings"

	"github.com/dalemusser/facetoface/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/mongo"
)

//go:embed schema.sql
var schemaSQL string

/*
EnsureAll is called at startup. Each ensure step is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, sqlDB *sql.DB, mongoDB *mongo.Database) error {
	var problems []string

	if err := EnsureSQL(ctx, sqlDB); err != nil {
		problems = append(problems, "sql: "+err.Error())
	}
	if mongoDB != nil {
		if err := audit.New(mongoDB).EnsureIndexes(ctx); err != nil {
			problems = append(problems, "audit_events: "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// EnsureSQL creates the relational tables and indexes if they are missing.
func EnsureSQL(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaSQL)
	return err
}
