// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/groupwork/internal/app/system/mailer"
	"github.com/dalemusser/groupwork/internal/app/system/matchmaking"
	"github.com/dalemusser/groupwork/internal/app/system/notify"
	"github.com/dalemusser/groupwork/internal/app/system/relay"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Relay is nil when no Redis address is configured.
	Relay *relay.Publisher
	// MailQueue is nil when no RabbitMQ URL is configured.
	MailQueue *mailer.QueueSender

	// Background is filled in by Startup and torn down by Shutdown.
	Background *Background
}

// Background holds the in-process workers shared by all requests.
type Background struct {
	Queue    *matchmaking.Queue
	Notifier *notify.Async
	Mailer   *mailer.Async
}
