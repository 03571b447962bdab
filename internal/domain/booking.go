package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/bbconnect/BBC-BookingService/pkg/types"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	// StatusPaymentHeld funds are held in escrow, waiting for the partner
	StatusPaymentHeld BookingStatus = "payment_held"
	// StatusConfirmed partner accepted within the escrow window
	StatusConfirmed BookingStatus = "confirmed"
	// StatusRejected partner declined within the escrow window
	StatusRejected BookingStatus = "rejected"
	// StatusFailed escrow window elapsed, funds auto-refunded
	StatusFailed BookingStatus = "failed"
	// StatusCancelled customer abandoned the payment flow
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the state of the payment attached to a booking
type PaymentStatus string

const (
	PaymentSuccess   PaymentStatus = "success"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentAbandoned PaymentStatus = "abandoned"
	PaymentFailed    PaymentStatus = "failed"
)

// Booking represents a paid reservation of a service slot at a partner shop.
// The record is an append-only audit trail: everything except Status,
// PaymentStatus, StatusReason and StatusChangedAt is write-once at creation,
// and the record is never deleted.
type Booking struct {
	ID string

	// Snapshot of the parties and terms at creation time
	CustomerID   string
	CustomerName string
	ShopID       string
	ShopName     string
	ServiceName  string
	Price        float64

	// Reserved slot
	BookingDate time.Time
	StartTime   types.TimeString

	Status        BookingStatus
	PaymentStatus PaymentStatus
	TransactionID string
	StatusReason  *string

	// Client-supplied key making retried creates safe
	IdempotencyKey *string

	CreatedAt       time.Time
	ExpiryTime      time.Time
	StatusChangedAt time.Time
}

// IsTerminal returns true if no further transitions are legal
func (b *Booking) IsTerminal() bool {
	return b.Status != StatusPaymentHeld
}

// IsExpired returns true if the escrow deadline has passed while the hold is still open.
// ExpiryTime is inert once the booking is terminal.
func (b *Booking) IsExpired(now time.Time) bool {
	return b.Status == StatusPaymentHeld && now.After(b.ExpiryTime)
}

// RemainingEscrow returns the time left until the escrow deadline, clamped at zero
func (b *Booking) RemainingEscrow(now time.Time) time.Duration {
	remaining := b.ExpiryTime.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TerminalStatuses all statuses with no outgoing transitions
var TerminalStatuses = []BookingStatus{
	StatusConfirmed,
	StatusRejected,
	StatusFailed,
	StatusCancelled,
}

// legacy status spellings that still exist in old records
var legacyStatusVariants = map[string]BookingStatus{
	"approved": StatusConfirmed,
	"declined": StatusRejected,
	"expired":  StatusFailed,
}

// NormalizeBookingStatus maps a raw stored/received status string onto the
// canonical five-member enum. Legacy variants ("approved", "Cancelled", ...)
// are migrated; anything else is rejected.
func NormalizeBookingStatus(raw string) (BookingStatus, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch BookingStatus(s) {
	case StatusPaymentHeld, StatusConfirmed, StatusRejected, StatusFailed, StatusCancelled:
		return BookingStatus(s), nil
	}

	if status, ok := legacyStatusVariants[s]; ok {
		return status, nil
	}

	return "", fmt.Errorf("unknown booking status %q", raw)
}

// NormalizePaymentStatus maps a raw payment status string onto the canonical enum
func NormalizePaymentStatus(raw string) (PaymentStatus, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch PaymentStatus(s) {
	case PaymentSuccess, PaymentRefunded, PaymentAbandoned, PaymentFailed:
		return PaymentStatus(s), nil
	}

	return "", fmt.Errorf("unknown payment status %q", raw)
}
