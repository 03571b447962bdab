package respond_booking

// DeclineBookingRequest тело запроса на отклонение бронирования
type DeclineBookingRequest struct {
	Reason string `json:"reason"`
}
