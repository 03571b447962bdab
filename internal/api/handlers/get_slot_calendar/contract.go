package get_slot_calendar

import (
	usecase "github.com/bbconnect/BBC-BookingService/internal/usecase/get_slot_calendar"
)

type SlotCalendarUseCase interface {
	Execute() *usecase.GetSlotCalendarResponse
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
