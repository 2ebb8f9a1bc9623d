package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/groupwork/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "groupwork",
		MongoMaxPoolSize:    100,
		MongoMinPoolSize:    10,
		MailFromName:        "Groupwork",
		NegotiationTieBreak: "earliest",
		CalendarTimezone:    "UTC",
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", func(*AppConfig) {}, false},
		{"legacy tie-break", func(c *AppConfig) { c.NegotiationTieBreak = "legacy" }, false},
		{"bad uri", func(c *AppConfig) { c.MongoURI = "postgres://nope" }, true},
		{"empty database", func(c *AppConfig) { c.MongoDatabase = "" }, true},
		{"pool sizes reversed", func(c *AppConfig) { c.MongoMinPoolSize = 200 }, true},
		{"unknown tie-break", func(c *AppConfig) { c.NegotiationTieBreak = "random" }, true},
		{"unknown timezone", func(c *AppConfig) { c.CalendarTimezone = "Mars/Olympus" }, true},
		{"amqp without exchange", func(c *AppConfig) { c.AMQPURL = "amqp://localhost"; c.AMQPExchange = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig: err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestLifecycle_ServesRoutes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	t.Cleanup(timeouts.Reset)

	core := &config.CoreConfig{}
	cfg := validConfig()
	cfg.TimeoutShort = 3 * time.Second
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db, Background: &Background{}}

	if err := EnsureSchema(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := Startup(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	defer stopBackground(deps)

	if got := timeouts.Short(); got != 3*time.Second {
		t.Errorf("timeouts.Short: got %v, want 3s", got)
	}

	h, err := BuildHandler(core, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	fx := testutil.NewFixtures(t, db)
	fx.CreateAssignment(ctx, "A1", 2)
	fx.CreateStudents(ctx, "s1", "s2")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/health: got %d", rec.Code)
	}

	for i, student := range []string{"s1", "s2"} {
		body := `{"assignmentId":"A1","studentId":"` + student + `"}`
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/groups/matchmake", strings.NewReader(body)))
		want := http.StatusAccepted
		if i == 1 {
			want = http.StatusCreated
		}
		if rec.Code != want {
			t.Fatalf("matchmake %s: got %d, want %d (%s)", student, rec.Code, want, rec.Body.String())
		}
	}

	// Notifications are written by the background dispatcher.
	deps.Background.Notifier.Wait()
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/notifications/s1", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "auto-grouped") {
		t.Errorf("/notifications/s1: got %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/nowhere", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("/nowhere: got %d, want 404", rec.Code)
	}
}

func TestShutdown_WithoutStartup(t *testing.T) {
	if err := Shutdown(context.Background(), &config.CoreConfig{}, validConfig(), DBDeps{}, testLogger()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
