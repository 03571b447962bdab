package abandon_booking

import (
	"fmt"
	"time"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	"github.com/bbconnect/BBC-BookingService/internal/service/bookings/models"
	"github.com/bbconnect/BBC-BookingService/pkg/types"
)

// AbandonBookingRequest тело запроса на отмену платежного флоу.
// bookingId указывается, когда запись уже создана; иначе передаются
// данные попытки, чтобы зафиксировать ее в истории.
type AbandonBookingRequest struct {
	BookingID *string `json:"bookingId,omitempty"`

	CustomerName string  `json:"customerName,omitempty"`
	ShopID       string  `json:"shopId,omitempty"`
	ShopName     string  `json:"shopName,omitempty"`
	ServiceName  string  `json:"serviceName,omitempty"`
	Price        float64 `json:"price,omitempty"`
	Date         string  `json:"date,omitempty"`
	Time         string  `json:"time,omitempty"`
}

// ToServiceRequest конвертирует в модель сервиса
func (r *AbandonBookingRequest) ToServiceRequest(customerID string) (*models.AbandonRequest, error) {
	if r.BookingID != nil {
		return &models.AbandonRequest{
			CustomerID: customerID,
			BookingID:  r.BookingID,
		}, nil
	}

	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	startTime, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, fmt.Errorf("invalid time: %w", err)
	}

	return &models.AbandonRequest{
		CustomerID: customerID,
		Intent: &models.AbandonIntent{
			CustomerName: r.CustomerName,
			ShopID:       r.ShopID,
			ShopName:     r.ShopName,
			ServiceName:  r.ServiceName,
			Price:        r.Price,
			Date:         date,
			StartTime:    startTime,
		},
	}, nil
}
