// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/facetoface/internal/app/system/schema"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates the SQLite tables and the audit collection indexes.
// Every step is idempotent, so it runs on each startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := schema.EnsureAll(ctx, deps.SQL, deps.MongoDatabase); err != nil {
		logger.Error("schema setup failed", zap.Error(err))
		return err
	}
	logger.Info("schema ready")
	return nil
}
