package formation

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/app/system/negotiation"
	"github.com/dalemusser/groupwork/internal/app/system/relay"
	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BookingResult reports the ledger state after a booking write.
type BookingResult struct {
	// Complete is true once every participant has a booking.
	Complete bool `json:"complete"`
	Bookers  int  `json:"bookers"`
	Expected int  `json:"expected"`
	// ConfirmedTime is set when this write produced the group's slot.
	ConfirmedTime *models.ConfirmedTime `json:"confirmedTime,omitempty"`
}

// RecordBooking stores memberID's availability window for one day.
func (s *Service) RecordBooking(ctx context.Context, groupID, memberID, day string, w models.TimeSlot) (BookingResult, error) {
	if err := negotiation.ValidateSlot(day, w); err != nil {
		return BookingResult{}, err
	}
	g, err := s.bookingGroup(ctx, groupID, memberID)
	if err != nil {
		return BookingResult{}, err
	}
	if err := s.bookings.UpsertSlot(ctx, g.ID, memberID, day, w); err != nil {
		return BookingResult{}, apperr.Store("upsert booking", err)
	}
	return s.afterBooking(ctx, g.ID, memberID)
}

// RecordWeek replaces memberID's availability for the whole week. Days left
// empty are cleared.
func (s *Service) RecordWeek(ctx context.Context, groupID, memberID string, week models.Week) (BookingResult, error) {
	if err := negotiation.ValidateWeek(week); err != nil {
		return BookingResult{}, err
	}
	g, err := s.bookingGroup(ctx, groupID, memberID)
	if err != nil {
		return BookingResult{}, err
	}
	if err := s.bookings.UpsertWeek(ctx, g.ID, memberID, week); err != nil {
		return BookingResult{}, apperr.Store("upsert booking", err)
	}
	return s.afterBooking(ctx, g.ID, memberID)
}

// Bookings returns every booking recorded for a group.
func (s *Service) Bookings(ctx context.Context, groupID string) ([]models.Booking, error) {
	g, err := s.Group(ctx, groupID)
	if err != nil {
		return nil, err
	}
	list, err := s.bookings.ListByGroup(ctx, g.ID)
	if err != nil {
		return nil, apperr.Store("list bookings", err)
	}
	return list, nil
}

func (s *Service) bookingGroup(ctx context.Context, groupID, memberID string) (models.Group, error) {
	if memberID == "" {
		return models.Group{}, apperr.Invalid("memberId is required")
	}
	g, err := s.Group(ctx, groupID)
	if err != nil {
		return models.Group{}, err
	}
	if !g.HasParticipant(memberID) {
		return models.Group{}, ErrNotMember
	}
	return g, nil
}

// afterBooking bumps the group's booking version and, when every participant
// has booked, negotiates the slot and commits it against that version. A
// commit that finds a newer version is dropped; the newer write commits.
// Announcements go out only when the committed slot differs from the one the
// group already had, so racing writers that reach the same result announce once.
func (s *Service) afterBooking(ctx context.Context, groupID primitive.ObjectID, memberID string) (BookingResult, error) {
	g, err := s.groups.BumpBookingVersion(ctx, groupID)
	if err != nil {
		return BookingResult{}, apperr.Store("bump booking version", err)
	}
	version := g.BookingVersion

	all, err := s.bookings.ListByGroup(ctx, groupID)
	if err != nil {
		return BookingResult{}, apperr.Store("list bookings", err)
	}

	participants := g.Participants()
	want := make(map[string]bool, len(participants))
	for _, id := range participants {
		want[id] = true
	}
	var counted []models.Booking
	seen := make(map[string]bool, len(all))
	for _, b := range all {
		if want[b.MemberID] && !seen[b.MemberID] {
			seen[b.MemberID] = true
			counted = append(counted, b)
		}
	}

	res := BookingResult{Bookers: len(counted), Expected: len(participants)}
	if res.Bookers < res.Expected {
		return res, nil
	}
	res.Complete = true

	ct, err := s.engine.Negotiate(counted)
	if errors.Is(err, negotiation.ErrNoAvailability) {
		s.log.Warn("all members booked but no day is available",
			zap.String("group_id", groupID.Hex()))
		return res, nil
	}
	if err != nil {
		return BookingResult{}, err
	}

	prev, committed, err := s.groups.CommitConfirmedTime(ctx, groupID, version, ct)
	if err != nil {
		return BookingResult{}, apperr.Store("commit confirmed time", err)
	}
	if !committed {
		s.log.Debug("confirmed time superseded by a newer booking",
			zap.String("group_id", groupID.Hex()),
			zap.Int64("version", version))
		return res, nil
	}
	res.ConfirmedTime = &ct
	if prev != nil && *prev == ct {
		// Same slot as before: nothing new to announce.
		return res, nil
	}

	s.log.Info("group schedule confirmed",
		zap.String("group_id", groupID.Hex()),
		zap.String("day", ct.Day),
		zap.Int("start_time", ct.StartTime),
		zap.Int("end_time", ct.EndTime),
		zap.Int64("version", version))
	s.announceSchedule(ctx, g, memberID, ct)
	return res, nil
}

func (s *Service) announceSchedule(ctx context.Context, g models.Group, actor string, ct models.ConfirmedTime) {
	s.notify(models.Notification{
		Actor:      actor,
		Recipients: g.Participants(),
		Message:    fmt.Sprintf("Your group meets %s", describeSlot(ct)),
		Type:       models.NotificationScheduleConfirmed,
		GroupID:    g.ID.Hex(),
	})

	if s.relay == nil {
		return
	}
	rctx, cancel := timeouts.WithTimeout(context.WithoutCancel(ctx), timeouts.Short(), s.log, "relay publish")
	defer cancel()
	err := s.relay.Publish(rctx, g.ID.Hex(), relay.Event{Type: relay.EventScheduleConfirmed, Data: ct})
	if err != nil {
		s.log.Error("relay publish failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
	}
}

func describeSlot(ct models.ConfirmedTime) string {
	if ct.Day == "" {
		return fmt.Sprintf("from %02d:00 to %02d:00", ct.StartTime, ct.EndTime)
	}
	return fmt.Sprintf("on %s from %02d:00 to %02d:00", ct.Day, ct.StartTime, ct.EndTime)
}
