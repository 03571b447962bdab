package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrStaleTransition возвращается, когда переход уже невозможен:
	// запись в терминальном статусе или дедлайн не удовлетворен.
	// Не фатальная ошибка - для вызывающего это "делать нечего".
	ErrStaleTransition = errors.New("booking already expired or resolved")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
