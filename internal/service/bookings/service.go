package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	bookingRepo "github.com/bbconnect/BBC-BookingService/internal/infra/storage/booking"
	"github.com/bbconnect/BBC-BookingService/internal/service/bookings/models"
	"github.com/bbconnect/BBC-BookingService/pkg/ptr"
)

// Service сервис управления жизненным циклом бронирований.
// Все переходы статуса идут через условный Transition репозитория:
// из двух гонящихся переходов (подтверждение партнера против авто-возврата)
// выигрывает ровно один.
type Service struct {
	repo         BookingRepository
	timeProvider TimeProvider
	log          Logger
}

// New создает новый экземпляр сервиса бронирований
func New(repo BookingRepository, timeProvider TimeProvider, log Logger) *Service {
	return &Service{
		repo:         repo,
		timeProvider: timeProvider,
		log:          log,
	}
}

// GetBooking возвращает бронирование по ID.
// Доступ имеют только клиент-владелец и партнер, на которого оформлена бронь.
func (s *Service) GetBooking(ctx context.Context, requesterID, bookingID string) (*models.BookingResponse, error) {
	if requesterID == "" || bookingID == "" {
		return nil, fmt.Errorf("%w: GetBooking - requester id and booking id are required", ErrInvalidInput)
	}

	booking, err := s.getOwned(ctx, requesterID, bookingID, "GetBooking")
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings возвращает историю бронирований клиента,
// последние изменения первыми
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	if req.CustomerID == "" {
		return nil, fmt.Errorf("%w: GetCustomerBookings - customer id is required", ErrInvalidInput)
	}

	status, err := parseStatusFilter(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCustomerBookings - %v", ErrInvalidInput, err)
	}

	bookings, err := s.repo.GetByCustomerID(ctx, req.CustomerID, status)
	if err != nil {
		s.log.Error("GetCustomerBookings failed: customer_id=%s, error=%v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetShopBookings возвращает бронирования партнера,
// последние изменения первыми
func (s *Service) GetShopBookings(ctx context.Context, req *models.GetShopBookingsRequest) (*models.BookingListResponse, error) {
	if req.ShopID == "" {
		return nil, fmt.Errorf("%w: GetShopBookings - shop id is required", ErrInvalidInput)
	}

	status, err := parseStatusFilter(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: GetShopBookings - %v", ErrInvalidInput, err)
	}

	bookings, err := s.repo.GetByShopID(ctx, req.ShopID, status)
	if err != nil {
		s.log.Error("GetShopBookings failed: shop_id=%s, error=%v", req.ShopID, err)
		return nil, fmt.Errorf("%w: GetShopBookings - %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetShopRequests возвращает открытые холды партнера с оставшимся временем
// на ответ. Холд с истекшим дедлайном, который sweeper еще не обработал,
// остается в списке с remainingSeconds=0.
func (s *Service) GetShopRequests(ctx context.Context, shopID string) (*models.PendingRequestListResponse, error) {
	if shopID == "" {
		return nil, fmt.Errorf("%w: GetShopRequests - shop id is required", ErrInvalidInput)
	}

	status := domain.StatusPaymentHeld
	bookings, err := s.repo.GetByShopID(ctx, shopID, &status)
	if err != nil {
		s.log.Error("GetShopRequests failed: shop_id=%s, error=%v", shopID, err)
		return nil, fmt.Errorf("%w: GetShopRequests - %v", ErrInternal, err)
	}

	return models.FromDomainPendingRequests(bookings, s.timeProvider.Now()), nil
}

// Confirm подтверждает бронирование партнером.
// Переход payment_held -> confirmed допустим только до дедлайна эскроу;
// опоздавшее подтверждение получает ErrStaleTransition и не меняет запись.
func (s *Service) Confirm(ctx context.Context, bookingID string, req *models.ConfirmRequest) (*models.BookingResponse, error) {
	if bookingID == "" || req.ShopID == "" {
		return nil, fmt.Errorf("%w: Confirm - booking id and shop id are required", ErrInvalidInput)
	}

	booking, err := s.getShopOwned(ctx, req.ShopID, bookingID, "Confirm")
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	err = s.repo.Transition(ctx, booking.ID, bookingRepo.TransitionPatch{
		To:              domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentSuccess,
		NotExpiredAfter: &now,
	})
	if err != nil {
		return nil, s.mapTransitionErr("Confirm", booking.ID, err)
	}

	s.log.Info("Booking confirmed: booking_id=%s, shop_id=%s", booking.ID, req.ShopID)

	return s.reload(ctx, booking.ID, "Confirm")
}

// Reject отклоняет бронирование партнером с указанием причины.
// Переход payment_held -> rejected допустим только до дедлайна эскроу,
// средства возвращаются клиенту.
func (s *Service) Reject(ctx context.Context, bookingID string, req *models.DeclineRequest) (*models.BookingResponse, error) {
	if bookingID == "" || req.ShopID == "" {
		return nil, fmt.Errorf("%w: Reject - booking id and shop id are required", ErrInvalidInput)
	}

	reason := strings.TrimSpace(req.Reason)
	if len(reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: Reject - reason must not exceed %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	booking, err := s.getShopOwned(ctx, req.ShopID, bookingID, "Reject")
	if err != nil {
		return nil, err
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	now := s.timeProvider.Now()
	err = s.repo.Transition(ctx, booking.ID, bookingRepo.TransitionPatch{
		To:              domain.StatusRejected,
		PaymentStatus:   domain.PaymentRefunded,
		Reason:          reasonPtr,
		NotExpiredAfter: &now,
	})
	if err != nil {
		return nil, s.mapTransitionErr("Reject", booking.ID, err)
	}

	s.log.Info("Booking rejected: booking_id=%s, shop_id=%s", booking.ID, req.ShopID)

	return s.reload(ctx, booking.ID, "Reject")
}

// Abandon обрабатывает прерванный клиентом платежный флоу.
// Два пути, с одинаковым итогом (cancelled/abandoned):
// - запись уже создана: условный переход payment_held -> cancelled;
// - записи еще нет: создается сразу терминальная запись для истории клиента.
func (s *Service) Abandon(ctx context.Context, req *models.AbandonRequest) (*models.BookingResponse, error) {
	if req.CustomerID == "" {
		return nil, fmt.Errorf("%w: Abandon - customer id is required", ErrInvalidInput)
	}

	switch {
	case req.BookingID != nil:
		return s.abandonExisting(ctx, req.CustomerID, *req.BookingID)
	case req.Intent != nil:
		return s.abandonIntent(ctx, req.CustomerID, req.Intent)
	default:
		return nil, fmt.Errorf("%w: Abandon - booking id or intent is required", ErrInvalidInput)
	}
}

// ExpireOverdue переводит все просроченные холды в failed с авто-возвратом.
// Идемпотентен: переход условный, поэтому холд, который успел подтвердить
// партнер или уже обработал конкурирующий sweep, молча пропускается.
// Возвращает количество фактически закрытых бронирований.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()

	overdue, err := s.repo.ListOverdue(ctx, now)
	if err != nil {
		s.log.Error("ExpireOverdue failed to list overdue holds: error=%v", err)
		return 0, fmt.Errorf("%w: ExpireOverdue - %v", ErrInternal, err)
	}

	expired := 0
	for _, booking := range overdue {
		err := s.repo.Transition(ctx, booking.ID, bookingRepo.TransitionPatch{
			To:            domain.StatusFailed,
			PaymentStatus: domain.PaymentRefunded,
			Reason:        ptr.Ptr(domain.ReasonAutoRefund),
			ExpiredBefore: &now,
		})

		switch {
		case err == nil:
			expired++
			s.log.Info("Booking expired, refund triggered: booking_id=%s, shop_id=%s", booking.ID, booking.ShopID)
		case errors.Is(err, bookingRepo.ErrStaleTransition), errors.Is(err, bookingRepo.ErrBookingNotFound):
			// Холд разрешился между выборкой и переходом, нам делать нечего
		default:
			s.log.Error("ExpireOverdue transition failed: booking_id=%s, error=%v", booking.ID, err)
			return expired, fmt.Errorf("%w: ExpireOverdue - %v", ErrInternal, err)
		}
	}

	return expired, nil
}

func (s *Service) abandonExisting(ctx context.Context, customerID, bookingID string) (*models.BookingResponse, error) {
	booking, err := s.getOwned(ctx, customerID, bookingID, "Abandon")
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != customerID {
		return nil, fmt.Errorf("%w: Abandon - booking belongs to another customer", ErrAccessDenied)
	}

	err = s.repo.Transition(ctx, booking.ID, bookingRepo.TransitionPatch{
		To:            domain.StatusCancelled,
		PaymentStatus: domain.PaymentAbandoned,
		Reason:        ptr.Ptr(domain.ReasonPaymentAbandoned),
	})
	if err != nil {
		return nil, s.mapTransitionErr("Abandon", booking.ID, err)
	}

	s.log.Info("Booking abandoned by customer: booking_id=%s, customer_id=%s", booking.ID, customerID)

	return s.reload(ctx, booking.ID, "Abandon")
}

func (s *Service) abandonIntent(ctx context.Context, customerID string, intent *models.AbandonIntent) (*models.BookingResponse, error) {
	if intent.ShopID == "" || intent.ServiceName == "" {
		return nil, fmt.Errorf("%w: Abandon - shop id and service name are required", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	booking := &domain.Booking{
		ID:            uuid.New().String(),
		CustomerID:    customerID,
		CustomerName:  intent.CustomerName,
		ShopID:        intent.ShopID,
		ShopName:      intent.ShopName,
		ServiceName:   intent.ServiceName,
		Price:         intent.Price,
		BookingDate:   intent.Date,
		StartTime:     intent.StartTime,
		Status:        domain.StatusCancelled,
		PaymentStatus: domain.PaymentAbandoned,
		StatusReason:  ptr.Ptr(domain.ReasonPaymentAbandoned),
		ExpiryTime:    now,
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		s.log.Error("Abandon failed to create cancelled record: customer_id=%s, error=%v", customerID, err)
		return nil, fmt.Errorf("%w: Abandon - %v", ErrInternal, err)
	}

	s.log.Info("Booking abandoned by customer: booking_id=%s, customer_id=%s", created.ID, customerID)

	return models.FromDomainBooking(created), nil
}

// getOwned загружает бронирование и проверяет, что запрашивающий
// является его клиентом или партнером
func (s *Service) getOwned(ctx context.Context, requesterID, bookingID, method string) (*domain.Booking, error) {
	booking, err := s.getByID(ctx, bookingID, method)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != requesterID && booking.ShopID != requesterID {
		return nil, fmt.Errorf("%w: %s - booking is not visible to requester", ErrAccessDenied, method)
	}

	return booking, nil
}

// getShopOwned загружает бронирование и проверяет, что оно оформлено
// на указанного партнера
func (s *Service) getShopOwned(ctx context.Context, shopID, bookingID, method string) (*domain.Booking, error) {
	booking, err := s.getByID(ctx, bookingID, method)
	if err != nil {
		return nil, err
	}

	if booking.ShopID != shopID {
		return nil, fmt.Errorf("%w: %s - booking belongs to another shop", ErrAccessDenied, method)
	}

	return booking, nil
}

func (s *Service) getByID(ctx context.Context, bookingID, method string) (*domain.Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, fmt.Errorf("%w: %s - booking %s", ErrBookingNotFound, method, bookingID)
	}
	if err != nil {
		s.log.Error("%s failed to load booking: booking_id=%s, error=%v", method, bookingID, err)
		return nil, fmt.Errorf("%w: %s - %v", ErrInternal, method, err)
	}
	return booking, nil
}

func (s *Service) reload(ctx context.Context, bookingID, method string) (*models.BookingResponse, error) {
	booking, err := s.getByID(ctx, bookingID, method)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

func (s *Service) mapTransitionErr(method, bookingID string, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		return fmt.Errorf("%w: %s - booking %s", ErrBookingNotFound, method, bookingID)
	case errors.Is(err, bookingRepo.ErrStaleTransition):
		s.log.Warn("%s lost transition race: booking_id=%s", method, bookingID)
		return fmt.Errorf("%w: %s - booking %s", ErrStaleTransition, method, bookingID)
	default:
		s.log.Error("%s transition failed: booking_id=%s, error=%v", method, bookingID, err)
		return fmt.Errorf("%w: %s - %v", ErrInternal, method, err)
	}
}

func parseStatusFilter(raw *string) (*domain.BookingStatus, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	status, err := domain.NormalizeBookingStatus(*raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}
