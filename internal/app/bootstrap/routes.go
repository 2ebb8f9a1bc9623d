// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/groupwork/internal/app/features/errors"
	groupsfeature "github.com/dalemusser/groupwork/internal/app/features/groups"
	healthfeature "github.com/dalemusser/groupwork/internal/app/features/health"
	notificationsfeature "github.com/dalemusser/groupwork/internal/app/features/notifications"
	assignmentstore "github.com/dalemusser/groupwork/internal/app/store/assignments"
	bookingstore "github.com/dalemusser/groupwork/internal/app/store/bookings"
	groupstore "github.com/dalemusser/groupwork/internal/app/store/groups"
	notificationstore "github.com/dalemusser/groupwork/internal/app/store/notifications"
	studentstore "github.com/dalemusser/groupwork/internal/app/store/students"
	"github.com/dalemusser/groupwork/internal/app/system/formation"
	"github.com/dalemusser/groupwork/internal/app/system/negotiation"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It wires the formation orchestrator over
// the stores and background workers, then mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tieBreak, err := negotiation.ParseTieBreak(appCfg.NegotiationTieBreak)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(appCfg.CalendarTimezone)
	if err != nil {
		return nil, err
	}

	db := deps.MongoDatabase
	bg := deps.Background
	svc := formation.New(formation.Deps{
		Groups:      groupstore.New(db),
		Assignments: assignmentstore.New(db),
		Students:    studentstore.New(db),
		Bookings:    bookingstore.New(db),
		Queue:       bg.Queue,
		Engine:      negotiation.Engine{TieBreak: tieBreak},
		Notifier:    bg.Notifier,
		Mailer:      bg.Mailer,
		Relay:       deps.Relay,
		Log:         logger,
		SiteName:    appCfg.MailFromName,
		BaseURL:     appCfg.BaseURL,
	})

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	var relayPing healthfeature.Pinger
	if deps.Relay.Enabled() {
		relayPing = deps.Relay
	}
	healthHandler := healthfeature.NewHandler(deps.MongoClient, relayPing, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Group formation and scheduling
	groupsHandler := groupsfeature.NewHandler(svc, errLog, logger)
	groupsHandler.CalendarLocation = loc
	groupsHandler.BaseURL = appCfg.BaseURL
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))
	r.Mount("/assignments", groupsfeature.AssignmentRoutes(groupsHandler))

	// Notification feed
	notifHandler := notificationsfeature.NewHandler(notificationstore.New(db), errLog, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notifHandler))

	return r, nil
}
