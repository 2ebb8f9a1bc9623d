package calendar_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/app/system/calendar"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNextOccurrence(t *testing.T) {
	// Wednesday 2025-01-15 10:30 UTC
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		weekday   time.Weekday
		start     int
		end       int
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"same day", time.Wednesday, 19, 22,
			time.Date(2025, 1, 15, 19, 0, 0, 0, time.UTC), time.Date(2025, 1, 15, 22, 0, 0, 0, time.UTC)},
		{"later in week", time.Friday, 3, 5,
			time.Date(2025, 1, 17, 3, 0, 0, 0, time.UTC), time.Date(2025, 1, 17, 5, 0, 0, 0, time.UTC)},
		{"wraps to next week", time.Monday, 9, 10,
			time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC), time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)},
		{"end at midnight", time.Sunday, 0, 24,
			time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := calendar.NextOccurrence(now, tt.weekday, tt.start, tt.end)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start: got %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end: got %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	g := models.Group{
		ID:            primitive.NewObjectID(),
		AssignmentID:  "CS101-A1",
		LeaderID:      "s1",
		MembersID:     []string{"s2", "s3"},
		ConfirmedTime: &models.ConfirmedTime{Day: "wednesday", StartTime: 19, EndTime: 22},
	}
	now := time.Date(2025, 1, 13, 8, 0, 0, 0, time.UTC)

	out, err := calendar.Build(g, calendar.Options{Now: now, URL: "https://groupwork.example.edu/groups/x"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + g.ID.Hex() + "@groupwork",
		"DTSTART:20250115T190000Z",
		"DTEND:20250115T220000Z",
		"RRULE:FREQ=WEEKLY;BYDAY=WE",
		"SUMMARY:Group meeting: CS101-A1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("calendar missing %q:\n%s", want, out)
		}
	}
}

func TestBuild_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	g := models.Group{
		ID:            primitive.NewObjectID(),
		ConfirmedTime: &models.ConfirmedTime{Day: "monday", StartTime: 9, EndTime: 10},
	}
	now := time.Date(2025, 1, 13, 12, 0, 0, 0, time.UTC) // Monday

	out, err := calendar.Build(g, calendar.Options{Location: loc, Now: now})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(out, "DTSTART:20250113T140000Z") {
		t.Errorf("expected 09:00 UTC-5 as 14:00Z:\n%s", out)
	}
}

func TestBuild_NoSchedule(t *testing.T) {
	tests := []struct {
		name string
		ct   *models.ConfirmedTime
	}{
		{"none", nil},
		{"fallback without day", &models.ConfirmedTime{StartTime: 5, EndTime: 17}},
		{"unknown day", &models.ConfirmedTime{Day: "someday", StartTime: 1, EndTime: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calendar.Build(models.Group{ConfirmedTime: tt.ct}, calendar.Options{})
			if !errors.Is(err, calendar.ErrNoSchedule) {
				t.Errorf("got %v, want ErrNoSchedule", err)
			}
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("expected ErrValidation kind, got %v", err)
			}
		})
	}
}
