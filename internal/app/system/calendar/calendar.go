// Package calendar renders a group's confirmed meeting slot as an iCalendar
// feed with one weekly recurring event.
package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/domain/models"
)

// ErrNoSchedule is returned for groups without a confirmed weekday slot.
var ErrNoSchedule = fmt.Errorf("%w: group has no confirmed schedule", apperr.ErrValidation)

const productID = "-//groupwork//group schedule//EN"

// Options controls the event text.
type Options struct {
	Location *time.Location // zone the slot hours are read in; UTC when nil
	Now      time.Time      // first occurrence is on or after Now
	URL      string         // link back to the group, optional
}

// Build returns the serialized calendar for g.
func Build(g models.Group, opts Options) (string, error) {
	ct := g.ConfirmedTime
	if ct == nil || ct.Day == "" {
		return "", ErrNoSchedule
	}
	weekday, ok := weekdayOf(ct.Day)
	if !ok {
		return "", ErrNoSchedule
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	start, end := NextOccurrence(now.In(loc), weekday, ct.StartTime, ct.EndTime)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	ev := cal.AddEvent(g.ID.Hex() + "@groupwork")
	ev.SetDtStampTime(now.UTC())
	ev.SetStartAt(start)
	ev.SetEndAt(end)
	ev.AddRrule("FREQ=WEEKLY;BYDAY=" + byDay(weekday))
	ev.SetSummary(fmt.Sprintf("Group meeting: %s", g.AssignmentID))
	ev.SetDescription(describe(g))
	if opts.URL != "" {
		ev.SetURL(opts.URL)
	}
	return cal.Serialize(), nil
}

// NextOccurrence returns the first [start, end) on weekday at or after the
// start of now's day. endHour 24 rolls over to the following midnight.
func NextOccurrence(now time.Time, weekday time.Weekday, startHour, endHour int) (time.Time, time.Time) {
	days := (int(weekday) - int(now.Weekday()) + 7) % 7
	y, m, d := now.Date()
	loc := now.Location()
	start := time.Date(y, m, d+days, startHour, 0, 0, 0, loc)
	end := time.Date(y, m, d+days, endHour, 0, 0, 0, loc)
	return start, end
}

func weekdayOf(day string) (time.Weekday, bool) {
	for i, d := range models.Days {
		if d == day {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

func byDay(w time.Weekday) string {
	return strings.ToUpper(w.String()[:2])
}

func describe(g models.Group) string {
	var members []string
	for _, id := range g.Participants() {
		if id != g.LeaderID {
			members = append(members, id)
		}
	}
	return fmt.Sprintf("Leader: %s\nMembers: %s", g.LeaderID, strings.Join(members, ", "))
}
