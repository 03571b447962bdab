package domain

import (
	"fmt"
	"time"

	"github.com/bbconnect/BBC-BookingService/pkg/types"
)

// SlotLabels returns every bookable time label for a day, in chronological
// order: half-hour steps from 08:00 through 21:30 plus the closing 22:00
// label, 29 labels total.
func SlotLabels() []types.TimeString {
	labels := make([]types.TimeString, 0, (SlotCloseHour-SlotOpenHour)*60/SlotStepMinutes+1)

	for h := SlotOpenHour; h < SlotCloseHour; h++ {
		for m := 0; m < 60; m += SlotStepMinutes {
			labels = append(labels, types.TimeString(fmt.Sprintf("%02d:%02d", h, m)))
		}
	}
	labels = append(labels, types.TimeString(fmt.Sprintf("%02d:00", SlotCloseHour)))

	return labels
}

// IsValidSlotLabel returns true if slot is one of the labels produced by SlotLabels
func IsValidSlotLabel(slot types.TimeString) bool {
	for _, label := range SlotLabels() {
		if label == slot {
			return true
		}
	}
	return false
}

// IsSlotDisabled reports whether a slot on the given day cannot be booked at
// `now`: a slot is disabled iff the day is today and its wall-clock time has
// already been reached. Slots on future days are never disabled by this rule.
func IsSlotDisabled(day time.Time, slot types.TimeString, now time.Time) bool {
	if !isSameDay(day, now) {
		return false
	}

	slotTime, err := slot.On(now)
	if err != nil {
		return true
	}
	return !slotTime.After(now)
}

// CalendarDates returns the next CalendarDays calendar days starting today,
// inclusive, truncated to midnight in now's location.
func CalendarDates(now time.Time) []time.Time {
	dates := make([]time.Time, 0, CalendarDays)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < CalendarDays; i++ {
		dates = append(dates, today.AddDate(0, 0, i))
	}
	return dates
}

// IsBookableDate returns true if date falls inside the current calendar window
func IsBookableDate(date time.Time, now time.Time) bool {
	for _, d := range CalendarDates(now) {
		if isSameDay(d, date) {
			return true
		}
	}
	return false
}

func isSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
