// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/groupwork/internal/app/system/indexes"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates or reconciles the collection indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), logger, "ensure indexes")
	defer cancel()

	if err := indexes.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	return nil
}
