// internal/app/bootstrap/connect.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/groupwork/internal/app/system/mailer"
	"github.com/dalemusser/groupwork/internal/app/system/relay"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects MongoDB, then the optional Redis relay and RabbitMQ
// mail queue. Any configured backend that cannot be reached aborts startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Background:    &Background{},
	}

	relayCtx, cancelRelay := context.WithTimeout(ctx, timeouts.Short())
	defer cancelRelay()
	deps.Relay, err = relay.Connect(relayCtx, relay.Config{
		Addr:     appCfg.RedisAddr,
		Password: appCfg.RedisPassword,
		DB:       appCfg.RedisDB,
	}, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}

	if appCfg.AMQPURL != "" {
		deps.MailQueue, err = mailer.NewQueueSender(appCfg.AMQPURL, appCfg.AMQPExchange, appCfg.MailFrom, appCfg.MailFromName)
		if err != nil {
			_ = deps.Relay.Close()
			_ = client.Disconnect(context.Background())
			return DBDeps{}, err
		}
		logger.Info("connected to RabbitMQ", zap.String("exchange", appCfg.AMQPExchange))
	} else {
		logger.Info("email queue disabled (no amqp_url); emails will be logged")
	}

	return deps, nil
}
