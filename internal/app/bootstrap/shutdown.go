// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the background workers, then closes the relay, the mail
// queue and the MongoDB client.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	stopBackground(deps)

	if err := deps.Relay.Close(); err != nil {
		logger.Warn("redis close failed", zap.Error(err))
	}
	if deps.MailQueue != nil {
		if err := deps.MailQueue.Close(); err != nil {
			logger.Warn("rabbitmq close failed", zap.Error(err))
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
