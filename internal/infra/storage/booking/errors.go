package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStaleTransition возвращается, когда условный переход не прошел:
	// запись уже в терминальном статусе или дедлайн не удовлетворен
	ErrStaleTransition = errors.New("booking.repository: stale transition")

	// ErrSlotTaken возвращается при попытке занять уже занятый слот
	// (нарушение уникального индекса uq_bookings_active_slot)
	ErrSlotTaken = errors.New("booking.repository: slot already taken")

	// ErrIdempotencyConflict возвращается при повторной вставке с тем же
	// idempotency_key (запись уже создана предыдущей попыткой)
	ErrIdempotencyConflict = errors.New("booking.repository: idempotency key already used")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrInvalidStatus возвращается, когда в строке БД лежит статус,
	// который не нормализуется в канонический enum
	ErrInvalidStatus = errors.New("booking.repository: invalid booking status")
)
