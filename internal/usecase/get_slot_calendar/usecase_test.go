package get_slot_calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

func TestUseCase_Execute(t *testing.T) {
	// 10 марта, 14:10: метки до 14:00 включительно уже прошли
	now := time.Date(2026, 3, 10, 14, 10, 0, 0, time.UTC)
	resp := New(fixedTimeProvider{now: now}).Execute()

	require.Len(t, resp.Days, 7)

	today := resp.Days[0]
	assert.Equal(t, "2026-03-10", today.Date)
	assert.True(t, today.IsToday)
	require.Len(t, today.Slots, 29)
	assert.Equal(t, "08:00", today.Slots[0].Time)
	assert.Equal(t, "22:00", today.Slots[28].Time)

	disabledByTime := map[string]bool{}
	for _, slot := range today.Slots {
		disabledByTime[slot.Time] = slot.Disabled
	}
	assert.True(t, disabledByTime["08:00"])
	assert.True(t, disabledByTime["14:00"])
	assert.False(t, disabledByTime["14:30"])
	assert.False(t, disabledByTime["22:00"])

	for i, day := range resp.Days[1:] {
		assert.Equal(t, now.AddDate(0, 0, i+1).Format("2006-01-02"), day.Date)
		assert.False(t, day.IsToday)
		require.Len(t, day.Slots, 29)
		for _, slot := range day.Slots {
			assert.False(t, slot.Disabled, "future day slot %s on %s must be enabled", slot.Time, day.Date)
		}
	}
}

func TestUseCase_Execute_EndOfDay(t *testing.T) {
	// После закрытия все сегодняшние слоты недоступны
	now := time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC)
	resp := New(fixedTimeProvider{now: now}).Execute()

	for _, slot := range resp.Days[0].Slots {
		assert.True(t, slot.Disabled)
	}
}
