// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS); everything specific to
// group formation lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Real-time relay (Redis pub/sub); blank address disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Email job queue (RabbitMQ); blank URL logs emails instead
	AMQPURL      string
	AMQPExchange string
	MailFrom     string // From email address
	MailFromName string // From display name; also the site name in emails

	// Base URL for links in emails and calendar events
	BaseURL string

	// Scheduling
	NegotiationTieBreak string // "earliest" or "legacy"
	CalendarTimezone    string // IANA zone booking hours are read in

	// Operation timeouts; zero keeps the defaults
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
