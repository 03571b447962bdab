package get_slot_calendar

import (
	"github.com/bbconnect/BBC-BookingService/internal/domain"
)

// UseCase сценарий построения сетки слотов: семь дней начиная с сегодняшнего,
// в каждом дне одинаковый набор получасовых меток. Слот недоступен, только
// если день сегодняшний и его время уже наступило.
type UseCase struct {
	timeProvider TimeProvider
}

// New создает новый экземпляр usecase календаря слотов
func New(timeProvider TimeProvider) *UseCase {
	return &UseCase{timeProvider: timeProvider}
}

// Execute строит календарь слотов на текущий момент
func (uc *UseCase) Execute() *GetSlotCalendarResponse {
	now := uc.timeProvider.Now()
	labels := domain.SlotLabels()

	days := make([]Day, 0, domain.CalendarDays)
	for i, date := range domain.CalendarDates(now) {
		slots := make([]Slot, 0, len(labels))
		for _, label := range labels {
			slots = append(slots, Slot{
				Time:     label.String(),
				Disabled: domain.IsSlotDisabled(date, label, now),
			})
		}
		days = append(days, Day{
			Date:    date.Format(domain.DateFormat),
			IsToday: i == 0,
			Slots:   slots,
		})
	}

	return &GetSlotCalendarResponse{Days: days}
}
