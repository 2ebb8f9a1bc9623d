package relay_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/dalemusser/groupwork/internal/app/system/relay"
	"github.com/dalemusser/groupwork/internal/domain/models"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestNilPublisherIsNoop(t *testing.T) {
	var p *relay.Publisher
	ctx := context.Background()

	if p.Enabled() {
		t.Error("nil publisher should not be enabled")
	}
	if err := p.Publish(ctx, "g1", relay.Event{Type: relay.EventScheduleConfirmed}); err != nil {
		t.Errorf("Publish: %v", err)
	}
	if err := p.Dispatch(ctx, models.Notification{Recipients: []string{"s1"}}); err != nil {
		t.Errorf("Dispatch: %v", err)
	}
	if err := p.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestConnect_EmptyAddrDisables(t *testing.T) {
	p, err := relay.Connect(context.Background(), relay.Config{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if p != nil {
		t.Error("expected nil publisher for empty address")
	}
}

func TestChannels(t *testing.T) {
	if got := relay.GroupChannel("abc"); got != "group:abc" {
		t.Errorf("GroupChannel: got %q", got)
	}
	if got := relay.UserChannel("s1"); got != "user:s1" {
		t.Errorf("UserChannel: got %q", got)
	}
}

// Requires a Redis server; set GROUPWORK_TEST_REDIS_ADDR to run.
func TestPublish_DeliversToSubscriber(t *testing.T) {
	addr := os.Getenv("GROUPWORK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GROUPWORK_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p, err := relay.Connect(ctx, relay.Config{Addr: addr}, zap.NewNop())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer p.Close()

	sub := goredis.NewClient(&goredis.Options{Addr: addr})
	defer sub.Close()
	ps := sub.Subscribe(ctx, relay.GroupChannel("g1"))
	defer ps.Close()
	if _, err := ps.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	want := models.ConfirmedTime{Day: "monday", StartTime: 3, EndTime: 5}
	if err := p.Publish(ctx, "g1", relay.Event{Type: relay.EventScheduleConfirmed, Data: want}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msg, err := ps.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("ReceiveMessage: %v", err)
	}
	var ev struct {
		Type    string               `json:"type"`
		GroupID string               `json:"groupId"`
		Data    models.ConfirmedTime `json:"data"`
	}
	if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Type != relay.EventScheduleConfirmed || ev.GroupID != "g1" || ev.Data != want {
		t.Errorf("event: got %+v", ev)
	}
}
