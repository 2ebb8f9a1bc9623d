// internal/domain/models/booking.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Days lists the week in the order used for counting and tie-breaking.
var Days = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// IsDay reports whether s is one of Days.
func IsDay(s string) bool {
	for _, d := range Days {
		if d == s {
			return true
		}
	}
	return false
}

// TimeSlot is a window of whole hours on a 24-hour clock. {0, 24} means "any time".
// Hours carry no timezone; all members are assumed to share one.
type TimeSlot struct {
	StartTime int `bson:"start_time" json:"startTime"`
	EndTime   int `bson:"end_time" json:"endTime"`
}

// Week holds one optional slot per day. A nil slot means the member is not
// available that day.
type Week struct {
	Sunday    *TimeSlot `bson:"sunday,omitempty" json:"sunday,omitempty"`
	Monday    *TimeSlot `bson:"monday,omitempty" json:"monday,omitempty"`
	Tuesday   *TimeSlot `bson:"tuesday,omitempty" json:"tuesday,omitempty"`
	Wednesday *TimeSlot `bson:"wednesday,omitempty" json:"wednesday,omitempty"`
	Thursday  *TimeSlot `bson:"thursday,omitempty" json:"thursday,omitempty"`
	Friday    *TimeSlot `bson:"friday,omitempty" json:"friday,omitempty"`
	Saturday  *TimeSlot `bson:"saturday,omitempty" json:"saturday,omitempty"`
}

// Slot returns the slot for the named day, or nil for an empty or unknown day.
func (w Week) Slot(day string) *TimeSlot {
	switch day {
	case "sunday":
		return w.Sunday
	case "monday":
		return w.Monday
	case "tuesday":
		return w.Tuesday
	case "wednesday":
		return w.Wednesday
	case "thursday":
		return w.Thursday
	case "friday":
		return w.Friday
	case "saturday":
		return w.Saturday
	}
	return nil
}

// Booking is one member's weekly availability within one group.
// Exactly one document per (group_id, member_id).
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"groupId"`
	MemberID  string             `bson:"member_id" json:"memberId"`
	Week      `bson:",inline"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ConfirmedTime is the negotiated meeting slot. Day is empty only when the
// legacy tie-break produced it.
type ConfirmedTime struct {
	Day       string `bson:"day" json:"day"`
	StartTime int    `bson:"start_time" json:"startTime"`
	EndTime   int    `bson:"end_time" json:"endTime"`
}
