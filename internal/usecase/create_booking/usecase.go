package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	bookingRepo "github.com/bbconnect/BBC-BookingService/internal/infra/storage/booking"
	"github.com/bbconnect/BBC-BookingService/internal/integrations/paymentgateway"
	"github.com/bbconnect/BBC-BookingService/pkg/ptr"
)

// UseCase сценарий создания бронирования: сначала удержание средств,
// затем запись со статусом payment_held и пятиминутным окном на ответ партнера
type UseCase struct {
	repo         BookingRepository
	gateway      PaymentGateway
	txManager    TransactionManager
	timeProvider TimeProvider
	log          Logger
}

// New создает новый экземпляр usecase создания бронирования
func New(
	repo BookingRepository,
	gateway PaymentGateway,
	txManager TransactionManager,
	timeProvider TimeProvider,
	log Logger,
) *UseCase {
	return &UseCase{
		repo:         repo,
		gateway:      gateway,
		txManager:    txManager,
		timeProvider: timeProvider,
		log:          log,
	}
}

// Execute выполняет создание бронирования.
//
// Порядок шагов фиксирован: платеж идет до записи, поэтому payment_held
// всегда означает реально удержанные средства. Повтор запроса с тем же
// idempotencyKey возвращает уже созданную запись без второго списания.
func (uc *UseCase) Execute(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error) {
	now := uc.timeProvider.Now()

	date, slot, err := validateRequest(req, now)
	if err != nil {
		return nil, err
	}

	// Повтор уже обработанного запроса
	if req.IdempotencyKey != "" {
		existing, err := uc.repo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err == nil {
			uc.log.Info("Create replayed by idempotency key: booking_id=%s, key=%s", existing.ID, req.IdempotencyKey)
			return fromDomainBooking(existing), nil
		}
		if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.log.Error("Create failed to check idempotency key: key=%s, error=%v", req.IdempotencyKey, err)
			return nil, fmt.Errorf("%w: Execute - %v", ErrInternal, err)
		}
	}

	bookingID := uuid.New().String()

	charge, err := uc.gateway.Charge(ctx, &paymentgateway.ChargeRequest{
		Amount:    req.Price,
		PayeeRef:  req.ShopID,
		Reference: bookingID,
	})
	if err != nil {
		uc.log.Error("Create failed to charge: shop_id=%s, error=%v", req.ShopID, err)
		return nil, fmt.Errorf("%w: Execute - charge: %v", ErrInternal, err)
	}

	booking := &domain.Booking{
		ID:            bookingID,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		ShopID:        req.ShopID,
		ShopName:      req.ShopName,
		ServiceName:   req.ServiceName,
		Price:         req.Price,
		BookingDate:   date,
		StartTime:     slot,
		TransactionID: charge.TransactionID,
	}
	if req.IdempotencyKey != "" {
		booking.IdempotencyKey = &req.IdempotencyKey
	}

	if !charge.IsSuccess() {
		return uc.recordAbandoned(ctx, booking, now)
	}

	booking.Status = domain.StatusPaymentHeld
	booking.PaymentStatus = domain.PaymentSuccess
	booking.ExpiryTime = now.Add(domain.EscrowWindow)

	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err = uc.repo.Create(txCtx, booking)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, bookingRepo.ErrSlotTaken):
		// Средства уже удержаны, запись не создана: возврат на стороне шлюза
		uc.log.Warn("Create lost slot race, refund required: transaction_id=%s, shop_id=%s, date=%s, time=%s",
			charge.TransactionID, req.ShopID, req.Date, req.Time)
		return nil, fmt.Errorf("%w: Execute - %s %s at %s", ErrSlotTaken, req.Date, req.Time, req.ShopID)
	case errors.Is(err, bookingRepo.ErrIdempotencyConflict):
		// Конкурирующий повтор успел первым, возвращаем его результат
		existing, getErr := uc.repo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if getErr != nil {
			return nil, fmt.Errorf("%w: Execute - resolve idempotency conflict: %v", ErrInternal, getErr)
		}
		return fromDomainBooking(existing), nil
	default:
		uc.log.Error("Create failed to insert booking: booking_id=%s, error=%v", bookingID, err)
		return nil, fmt.Errorf("%w: Execute - %v", ErrInternal, err)
	}

	uc.log.Info("Booking created: booking_id=%s, shop_id=%s, date=%s, time=%s, expiry=%s",
		created.ID, created.ShopID, req.Date, req.Time, created.ExpiryTime.Format("15:04:05"))

	return fromDomainBooking(created), nil
}

// recordAbandoned фиксирует прерванную попытку оплаты терминальной записью,
// чтобы она была видна в истории клиента, и возвращает ErrPaymentNotConfirmed
func (uc *UseCase) recordAbandoned(ctx context.Context, booking *domain.Booking, now time.Time) (*CreateBookingResponse, error) {
	booking.Status = domain.StatusCancelled
	booking.PaymentStatus = domain.PaymentAbandoned
	booking.StatusReason = ptr.Ptr(domain.ReasonPaymentAbandoned)
	booking.ExpiryTime = now

	if _, err := uc.repo.Create(ctx, booking); err != nil {
		// Слот прерванная попытка не держит, конфликт активного слота тут невозможен
		uc.log.Error("Create failed to record abandoned attempt: booking_id=%s, error=%v", booking.ID, err)
		return nil, fmt.Errorf("%w: Execute - record abandoned: %v", ErrInternal, err)
	}

	uc.log.Info("Payment abandoned, booking not created: booking_id=%s, customer_id=%s", booking.ID, booking.CustomerID)

	return nil, fmt.Errorf("%w: Execute - booking %s", ErrPaymentNotConfirmed, booking.ID)
}
