package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	bookingRepo "github.com/bbconnect/BBC-BookingService/internal/infra/storage/booking"
	"github.com/bbconnect/BBC-BookingService/internal/integrations/paymentgateway"
)

type fakeRepo struct {
	byID     map[string]*domain.Booking
	byKey    map[string]*domain.Booking
	createFn func(b *domain.Booking) error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:  make(map[string]*domain.Booking),
		byKey: make(map[string]*domain.Booking),
	}
}

func (f *fakeRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createFn != nil {
		if err := f.createFn(b); err != nil {
			return nil, err
		}
	}

	stored := *b
	stored.CreatedAt = time.Now()
	stored.StatusChangedAt = stored.CreatedAt
	f.byID[stored.ID] = &stored
	if stored.IdempotencyKey != nil {
		f.byKey[*stored.IdempotencyKey] = &stored
	}

	result := stored
	return &result, nil
}

func (f *fakeRepo) GetByIdempotencyKey(_ context.Context, key string) (*domain.Booking, error) {
	b, ok := f.byKey[key]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	result := *b
	return &result, nil
}

type fakeGateway struct {
	result *paymentgateway.ChargeResult
	err    error
	calls  int
}

func (f *fakeGateway) Charge(_ context.Context, _ *paymentgateway.ChargeRequest) (*paymentgateway.ChargeResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func validRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		CustomerID:   "customer-1",
		CustomerName: "Anna",
		ShopID:       "shop-1",
		ShopName:     "Fade Factory",
		ServiceName:  "Haircut",
		Price:        45,
		Date:         "2026-03-11",
		Time:         "14:00",
	}
}

func newUseCase(repo *fakeRepo, gateway *fakeGateway) *UseCase {
	return New(repo, gateway, passthroughTxManager{}, fixedTimeProvider{now: testNow}, noopLogger{})
}

func TestUseCase_Execute(t *testing.T) {
	t.Run("creates payment_held booking with five minute window", func(t *testing.T) {
		repo := newFakeRepo()
		gateway := &fakeGateway{result: &paymentgateway.ChargeResult{
			TransactionID: "txn-1",
			Outcome:       paymentgateway.OutcomeSuccess,
		}}

		resp, err := newUseCase(repo, gateway).Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusPaymentHeld), resp.Status)
		assert.Equal(t, string(domain.PaymentSuccess), resp.PaymentStatus)
		assert.Equal(t, "txn-1", resp.TransactionID)
		assert.Equal(t, testNow.Add(domain.EscrowWindow).Format(time.RFC3339), resp.ExpiryTime)
		assert.Equal(t, 1, gateway.calls)

		stored := repo.byID[resp.ID]
		require.NotNil(t, stored)
		assert.Equal(t, domain.StatusPaymentHeld, stored.Status)
	})

	t.Run("abandoned payment leaves a cancelled record and no hold", func(t *testing.T) {
		repo := newFakeRepo()
		gateway := &fakeGateway{result: &paymentgateway.ChargeResult{
			TransactionID: "txn-1",
			Outcome:       paymentgateway.OutcomeAbandoned,
		}}

		resp, err := newUseCase(repo, gateway).Execute(context.Background(), validRequest())

		require.ErrorIs(t, err, ErrPaymentNotConfirmed)
		assert.Nil(t, resp)

		require.Len(t, repo.byID, 1)
		for _, stored := range repo.byID {
			assert.Equal(t, domain.StatusCancelled, stored.Status)
			assert.Equal(t, domain.PaymentAbandoned, stored.PaymentStatus)
			require.NotNil(t, stored.StatusReason)
			assert.Equal(t, domain.ReasonPaymentAbandoned, *stored.StatusReason)
		}
	})

	t.Run("replays by idempotency key without a second charge", func(t *testing.T) {
		repo := newFakeRepo()
		gateway := &fakeGateway{result: &paymentgateway.ChargeResult{
			TransactionID: "txn-1",
			Outcome:       paymentgateway.OutcomeSuccess,
		}}
		uc := newUseCase(repo, gateway)

		req := validRequest()
		req.IdempotencyKey = "key-1"

		first, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		second, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, gateway.calls)
	})

	t.Run("slot race maps to slot taken", func(t *testing.T) {
		repo := newFakeRepo()
		repo.createFn = func(*domain.Booking) error { return bookingRepo.ErrSlotTaken }
		gateway := &fakeGateway{result: &paymentgateway.ChargeResult{
			TransactionID: "txn-1",
			Outcome:       paymentgateway.OutcomeSuccess,
		}}

		_, err := newUseCase(repo, gateway).Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("gateway failure does not create a record", func(t *testing.T) {
		repo := newFakeRepo()
		gateway := &fakeGateway{err: errors.New("gateway down")}

		_, err := newUseCase(repo, gateway).Execute(context.Background(), validRequest())

		require.ErrorIs(t, err, ErrInternal)
		assert.Empty(t, repo.byID)
	})
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *CreateBookingRequest)
		wantErr error
	}{
		{
			name:    "missing customer id",
			mutate:  func(r *CreateBookingRequest) { r.CustomerID = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "blank service name",
			mutate:  func(r *CreateBookingRequest) { r.ServiceName = "   " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "non-positive price",
			mutate:  func(r *CreateBookingRequest) { r.Price = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed date",
			mutate:  func(r *CreateBookingRequest) { r.Date = "11.03.2026" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "date outside the seven day window",
			mutate:  func(r *CreateBookingRequest) { r.Date = "2026-03-20" },
			wantErr: ErrInvalidSlot,
		},
		{
			name:    "date in the past",
			mutate:  func(r *CreateBookingRequest) { r.Date = "2026-03-09" },
			wantErr: ErrInvalidSlot,
		},
		{
			name:    "time off the half-hour grid",
			mutate:  func(r *CreateBookingRequest) { r.Time = "14:15" },
			wantErr: ErrInvalidSlot,
		},
		{
			name:    "time before opening",
			mutate:  func(r *CreateBookingRequest) { r.Time = "07:30" },
			wantErr: ErrInvalidSlot,
		},
		{
			name: "today's slot already passed",
			mutate: func(r *CreateBookingRequest) {
				r.Date = "2026-03-10"
				r.Time = "11:30"
			},
			wantErr: ErrInvalidSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			gateway := &fakeGateway{result: &paymentgateway.ChargeResult{
				TransactionID: "txn-1",
				Outcome:       paymentgateway.OutcomeSuccess,
			}}

			req := validRequest()
			tt.mutate(req)

			_, err := newUseCase(repo, gateway).Execute(context.Background(), req)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, gateway.calls, "validation must reject before charging")
			assert.Empty(t, repo.byID)
		})
	}
}
