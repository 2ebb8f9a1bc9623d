// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	notificationstore "github.com/dalemusser/groupwork/internal/app/store/notifications"
	"github.com/dalemusser/groupwork/internal/app/system/mailer"
	"github.com/dalemusser/groupwork/internal/app/system/matchmaking"
	"github.com/dalemusser/groupwork/internal/app/system/notify"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs after DB connections and schema setup, before the HTTP handler
// is built. It applies configured timeouts and starts the background workers:
// the matchmaking queue, the notification dispatcher and the email sender.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	logger.Info("timeouts configured", zap.Any("timeouts", timeouts.Current()))

	startBackground(deps, logger)
	return nil
}

func startBackground(deps DBDeps, logger *zap.Logger) {
	bg := deps.Background

	bg.Queue = matchmaking.New(logger)
	bg.Queue.Start()

	dispatchers := notify.Fanout{notify.StoreDispatcher{Store: notificationstore.New(deps.MongoDatabase)}}
	if deps.Relay.Enabled() {
		dispatchers = append(dispatchers, deps.Relay)
	}
	bg.Notifier = notify.NewAsync(dispatchers, logger, timeouts.Short())
	bg.Notifier.Start()

	var sender mailer.Sender = mailer.LogSender{Log: logger}
	if deps.MailQueue != nil {
		sender = deps.MailQueue
	}
	bg.Mailer = mailer.NewAsync(sender, logger, timeouts.Short())
	bg.Mailer.Start()
}

// stopBackground stops workers in reverse order so no producer outlives its
// consumer. Safe to call when Startup never ran.
func stopBackground(deps DBDeps) {
	bg := deps.Background
	if bg == nil {
		return
	}
	if bg.Queue != nil {
		bg.Queue.Stop()
	}
	if bg.Notifier != nil {
		bg.Notifier.Stop()
	}
	if bg.Mailer != nil {
		bg.Mailer.Stop()
	}
}
