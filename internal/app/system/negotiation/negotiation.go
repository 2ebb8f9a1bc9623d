// Package negotiation reconciles members' weekly availability into one meeting slot.
//
// Negotiation runs in two stages:
//  1. Majority day: count, per day, how many bookings carry a slot; the day with
//     a strict plurality wins.
//  2. ComputeTime: starting from the whole day, narrow to the intersection of every
//     overlapping window on that day. Windows that do not overlap the running
//     window are skipped rather than failing the negotiation.
//
// Everything here is pure; the same bookings always give the same result.
package negotiation

import (
	"fmt"

	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/domain/models"
)

// TieBreak selects what happens when no day has a strict plurality.
type TieBreak string

const (
	// TieBreakEarliest picks the earliest day of the week (Sunday first) among the
	// days tied for the highest count.
	TieBreakEarliest TieBreak = "earliest"
	// TieBreakLegacy computes over the fixed pair [{0,23},{5,17}] and leaves the
	// day empty.
	TieBreakLegacy TieBreak = "legacy"
)

// ErrNoAvailability is returned when no booking carries a slot on any day.
var ErrNoAvailability = fmt.Errorf("%w: no member reported any availability", apperr.ErrValidation)

// legacyWindows is the fallback candidate set used by TieBreakLegacy.
var legacyWindows = []models.TimeSlot{{StartTime: 0, EndTime: 23}, {StartTime: 5, EndTime: 17}}

// ParseTieBreak validates a configured tie-break name. Empty means TieBreakEarliest.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case "", TieBreakEarliest:
		return TieBreakEarliest, nil
	case TieBreakLegacy:
		return TieBreakLegacy, nil
	}
	return "", fmt.Errorf("unknown negotiation tie-break %q (want %q or %q)", s, TieBreakEarliest, TieBreakLegacy)
}

// Engine negotiates with a fixed tie-break policy. The zero value uses TieBreakEarliest.
type Engine struct {
	TieBreak TieBreak
}

// Negotiate runs the default engine.
func Negotiate(bookings []models.Booking) (models.ConfirmedTime, error) {
	return Engine{}.Negotiate(bookings)
}

// Negotiate selects the majority day and the window every overlapping booking
// on that day can attend.
func (e Engine) Negotiate(bookings []models.Booking) (models.ConfirmedTime, error) {
	counts := DayCounts(bookings)

	day, ok := pluralityDay(counts)
	if !ok {
		if e.TieBreak == TieBreakLegacy {
			w := ComputeTime(legacyWindows)
			return models.ConfirmedTime{Day: "", StartTime: w.StartTime, EndTime: w.EndTime}, nil
		}
		day, ok = earliestTopDay(counts)
		if !ok {
			return models.ConfirmedTime{}, ErrNoAvailability
		}
	}

	w := ComputeTime(windowsOn(bookings, day))
	return models.ConfirmedTime{Day: day, StartTime: w.StartTime, EndTime: w.EndTime}, nil
}

// DayCounts returns, per day name, how many bookings have a slot on that day.
func DayCounts(bookings []models.Booking) map[string]int {
	counts := make(map[string]int, len(models.Days))
	for _, d := range models.Days {
		counts[d] = 0
	}
	for _, b := range bookings {
		for _, d := range models.Days {
			if b.Slot(d) != nil {
				counts[d]++
			}
		}
	}
	return counts
}

// ComputeTime narrows [0,24] to the intersection of the overlapping windows.
// The full-day placeholder {0,24} leaves the running window untouched.
func ComputeTime(windows []models.TimeSlot) models.TimeSlot {
	start, end := 0, 24
	for _, w := range windows {
		if w.StartTime == 0 && w.EndTime == 24 {
			continue
		}
		if w.StartTime > end || w.EndTime < start {
			continue
		}
		if w.StartTime > start {
			start = w.StartTime
		}
		if w.EndTime < end {
			end = w.EndTime
		}
	}
	return models.TimeSlot{StartTime: start, EndTime: end}
}

// pluralityDay returns the day whose count is strictly greater than every other.
func pluralityDay(counts map[string]int) (string, bool) {
	best, bestN, tied := "", -1, false
	for _, d := range models.Days {
		n := counts[d]
		switch {
		case n > bestN:
			best, bestN, tied = d, n, false
		case n == bestN:
			tied = true
		}
	}
	if tied || bestN <= 0 {
		return "", false
	}
	return best, true
}

func earliestTopDay(counts map[string]int) (string, bool) {
	best, bestN := "", 0
	for _, d := range models.Days {
		if counts[d] > bestN {
			best, bestN = d, counts[d]
		}
	}
	return best, bestN > 0
}

func windowsOn(bookings []models.Booking, day string) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(bookings))
	for _, b := range bookings {
		if s := b.Slot(day); s != nil {
			out = append(out, *s)
		}
	}
	return out
}
