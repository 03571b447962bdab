package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	"github.com/bbconnect/BBC-BookingService/pkg/types"
)

// validateRequest проверяет запрос и возвращает разобранные дату и слот
func validateRequest(req *CreateBookingRequest, now time.Time) (time.Time, types.TimeString, error) {
	if req.CustomerID == "" {
		return time.Time{}, "", fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return time.Time{}, "", fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if len(req.CustomerName) > domain.MaxCustomerNameLength {
		return time.Time{}, "", fmt.Errorf("%w: customer name must not exceed %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}
	if req.ShopID == "" {
		return time.Time{}, "", fmt.Errorf("%w: shop id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ServiceName) == "" {
		return time.Time{}, "", fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}
	if len(req.ServiceName) > domain.MaxServiceNameLength {
		return time.Time{}, "", fmt.Errorf("%w: service name must not exceed %d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}
	if req.Price <= 0 {
		return time.Time{}, "", fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}

	date, err := time.ParseInLocation(domain.DateFormat, req.Date, now.Location())
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: date must be in format %s", ErrInvalidInput, domain.DateFormat)
	}
	if !domain.IsBookableDate(date, now) {
		return time.Time{}, "", fmt.Errorf("%w: date %s is outside the booking window", ErrInvalidSlot, req.Date)
	}

	slot, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !domain.IsValidSlotLabel(slot) {
		return time.Time{}, "", fmt.Errorf("%w: time %s is not on the slot grid", ErrInvalidSlot, req.Time)
	}
	if domain.IsSlotDisabled(date, slot, now) {
		return time.Time{}, "", fmt.Errorf("%w: slot %s has already passed", ErrInvalidSlot, req.Time)
	}

	return date, slot, nil
}
