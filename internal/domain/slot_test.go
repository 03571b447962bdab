package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbconnect/BBC-BookingService/pkg/types"
)

func TestSlotLabels(t *testing.T) {
	labels := SlotLabels()

	require.Len(t, labels, 29)
	assert.Equal(t, types.TimeString("08:00"), labels[0])
	assert.Equal(t, types.TimeString("21:30"), labels[27])
	assert.Equal(t, types.TimeString("22:00"), labels[28])

	// strictly increasing chronological order
	for i := 1; i < len(labels); i++ {
		assert.True(t, labels[i-1].IsBefore(labels[i]),
			"label %s must precede %s", labels[i-1], labels[i])
	}
}

func TestIsValidSlotLabel(t *testing.T) {
	assert.True(t, IsValidSlotLabel("08:00"))
	assert.True(t, IsValidSlotLabel("14:30"))
	assert.True(t, IsValidSlotLabel("22:00"))

	assert.False(t, IsValidSlotLabel("07:30"))
	assert.False(t, IsValidSlotLabel("22:30"))
	assert.False(t, IsValidSlotLabel("14:15"))
	assert.False(t, IsValidSlotLabel(""))
}

func TestIsSlotDisabled(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	// past and current slots of today are disabled
	assert.True(t, IsSlotDisabled(today, "08:00", now))
	assert.True(t, IsSlotDisabled(today, "13:30", now))
	assert.True(t, IsSlotDisabled(today, "14:00", now))

	// later slots of today are enabled
	assert.False(t, IsSlotDisabled(today, "14:30", now))
	assert.False(t, IsSlotDisabled(today, "22:00", now))

	// future days are never disabled
	assert.False(t, IsSlotDisabled(tomorrow, "08:00", now))
	assert.False(t, IsSlotDisabled(tomorrow, "13:30", now))
}

func TestCalendarDates(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 45, 0, 0, time.UTC)
	dates := CalendarDates(now)

	require.Len(t, dates, CalendarDays)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), dates[6])

	for i := 1; i < len(dates); i++ {
		assert.Equal(t, 24*time.Hour, dates[i].Sub(dates[i-1]))
	}
}

func TestIsBookableDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsBookableDate(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, IsBookableDate(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), now))

	assert.False(t, IsBookableDate(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsBookableDate(time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), now))
}
