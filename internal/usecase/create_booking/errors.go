package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidSlot возвращается, когда слот вне сетки или уже прошел
	ErrInvalidSlot = errors.New("slot is not bookable")

	// ErrSlotTaken возвращается, когда слот уже занят активной бронью
	ErrSlotTaken = errors.New("slot is already taken")

	// ErrPaymentNotConfirmed возвращается, когда клиент прервал платежный
	// флоу: средства не удержаны, бронирование не создано
	ErrPaymentNotConfirmed = errors.New("payment was not confirmed")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
