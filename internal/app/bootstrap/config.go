// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/groupwork/internal/app/system/negotiation"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for groupwork.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, redis_addr, etc.
//   - Environment variables: GROUPWORK_MONGO_URI, GROUPWORK_REDIS_ADDR, etc.
//   - Command-line flags: --mongo_uri, --redis_addr, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "groupwork", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Real-time relay
	{Name: "redis_addr", Default: "", Desc: "Redis address for real-time events (blank disables)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},

	// Email job queue
	{Name: "amqp_url", Default: "", Desc: "RabbitMQ URL for email jobs (blank logs emails instead)"},
	{Name: "amqp_exchange", Default: "groupwork.mail", Desc: "RabbitMQ topic exchange for email jobs"},
	{Name: "mail_from", Default: "noreply@groupwork.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Groupwork", Desc: "From display name"},

	// Base URL for links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for email and calendar links"},

	// Scheduling
	{Name: "negotiation_tie_break", Default: "earliest", Desc: "Day tie-break: 'earliest' or 'legacy'"},
	{Name: "calendar_timezone", Default: "UTC", Desc: "IANA timezone booking hours are interpreted in for calendar export"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries and booking writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for group formation"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, GROUPWORK_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GROUPWORK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),

		AMQPURL:      appValues.String("amqp_url"),
		AMQPExchange: appValues.String("amqp_exchange"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL: appValues.String("base_url"),

		NegotiationTieBreak: appValues.String("negotiation_tie_break"),
		CalendarTimezone:    appValues.String("calendar_timezone"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation. It rejects a
// malformed MongoDB URI, an unknown tie-break policy, or an unknown timezone
// before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if _, err := negotiation.ParseTieBreak(appCfg.NegotiationTieBreak); err != nil {
		return err
	}
	if _, err := time.LoadLocation(appCfg.CalendarTimezone); err != nil {
		return fmt.Errorf("invalid calendar_timezone %q: %w", appCfg.CalendarTimezone, err)
	}
	if appCfg.AMQPURL != "" && appCfg.AMQPExchange == "" {
		return fmt.Errorf("amqp_exchange must be set when amqp_url is set")
	}
	return nil
}
