// Package relay publishes group events to the real-time transport over Redis
// pub/sub. A nil *Publisher is valid and publishes nothing, which is how the
// relay is disabled when no Redis address is configured.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dalemusser/groupwork/internal/domain/models"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event types.
const (
	EventScheduleConfirmed = "schedule-confirmed"
	EventNotification      = "notification"
)

// Event is the JSON body of every relay message.
type Event struct {
	Type    string    `json:"type"`
	GroupID string    `json:"groupId,omitempty"`
	Data    any       `json:"data,omitempty"`
	At      time.Time `json:"at"`
}

// GroupChannel is the channel subscribers of a group listen on.
func GroupChannel(groupID string) string { return "group:" + groupID }

// UserChannel is the channel a single student listens on.
func UserChannel(userID string) string { return "user:" + userID }

// Config holds connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Publisher wraps a Redis client.
type Publisher struct {
	rdb *goredis.Client
	log *zap.Logger
}

// Connect creates a Redis client and pings it. An empty address returns a nil
// Publisher and no error.
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*Publisher, error) {
	if cfg.Addr == "" {
		logger.Info("real-time relay disabled (no redis address)")
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	return &Publisher{rdb: rdb, log: logger}, nil
}

// Publish sends ev on the group's channel.
func (p *Publisher) Publish(ctx context.Context, groupID string, ev Event) error {
	if p == nil {
		return nil
	}
	ev.GroupID = groupID
	return p.publish(ctx, GroupChannel(groupID), ev)
}

// Dispatch pushes a notification to each recipient's channel, so the
// Publisher can sit in a notify.Fanout.
func (p *Publisher) Dispatch(ctx context.Context, n models.Notification) error {
	if p == nil {
		return nil
	}
	ev := Event{Type: EventNotification, GroupID: n.GroupID, Data: n}
	for _, r := range n.Recipients {
		if err := p.publish(ctx, UserChannel(r), ev); err != nil {
			return err
		}
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (p *Publisher) Ping(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.rdb.Ping(ctx).Err()
}

// Enabled reports whether events are actually published.
func (p *Publisher) Enabled() bool { return p != nil }

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.rdb.Close()
}

func (p *Publisher) publish(ctx context.Context, channel string, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, channel, b).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}
