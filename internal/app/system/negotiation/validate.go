package negotiation

import (
	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/domain/models"
)

// ValidateSlot checks a single day/window pair from a booking submission.
func ValidateSlot(day string, w models.TimeSlot) error {
	if !models.IsDay(day) {
		return apperr.Invalid("unknown day %q", day)
	}
	return validateWindow(day, w)
}

// ValidateWeek checks every non-empty slot of a weekly submission and requires
// at least one of them.
func ValidateWeek(week models.Week) error {
	found := false
	for _, d := range models.Days {
		s := week.Slot(d)
		if s == nil {
			continue
		}
		found = true
		if err := validateWindow(d, *s); err != nil {
			return err
		}
	}
	if !found {
		return apperr.Invalid("booking has no available day")
	}
	return nil
}

func validateWindow(day string, w models.TimeSlot) error {
	if w.StartTime < 0 || w.StartTime > 23 {
		return apperr.Invalid("%s: start time %d outside 0-23", day, w.StartTime)
	}
	if w.EndTime < 1 || w.EndTime > 24 {
		return apperr.Invalid("%s: end time %d outside 1-24", day, w.EndTime)
	}
	if w.EndTime <= w.StartTime {
		return apperr.Invalid("%s: end time %d must be after start time %d", day, w.EndTime, w.StartTime)
	}
	return nil
}
