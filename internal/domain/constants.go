package domain

import "time"

// Escrow policy
const (
	// EscrowWindow how long the partner has to respond before auto-refund
	EscrowWindow = 5 * time.Minute
)

// Slot grid policy
const (
	CalendarDays    = 7  // bookable days starting today, inclusive
	SlotOpenHour    = 8  // first slot 08:00
	SlotCloseHour   = 22 // closing label 22:00
	SlotStepMinutes = 30
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Status reasons attached on system-driven transitions
const (
	ReasonAutoRefund       = "Partner response timeout: auto-refund triggered"
	ReasonPaymentAbandoned = "Payment cancelled, slot not booked"
)

// Business validation constants
const (
	MaxReasonLength       = 500
	MaxServiceNameLength  = 200
	MaxCustomerNameLength = 200
)
