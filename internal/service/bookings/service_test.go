package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	bookingRepo "github.com/bbconnect/BBC-BookingService/internal/infra/storage/booking"
	"github.com/bbconnect/BBC-BookingService/internal/service/bookings/models"
	"github.com/bbconnect/BBC-BookingService/pkg/types"
)

// fakeRepository in-memory репозиторий с той же семантикой условного
// перехода, что и у SQL-реализации: compare-and-set под мьютексом
type fakeRepository struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bookings: make(map[string]*domain.Booking)}
}

func (f *fakeRepository) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *b
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.StatusChangedAt = stored.CreatedAt
	f.bookings[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	result := *b
	return &result, nil
}

func (f *fakeRepository) GetByCustomerID(_ context.Context, customerID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.list(func(b *domain.Booking) bool { return b.CustomerID == customerID }, status)
}

func (f *fakeRepository) GetByShopID(_ context.Context, shopID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.list(func(b *domain.Booking) bool { return b.ShopID == shopID }, status)
}

func (f *fakeRepository) ListOverdue(_ context.Context, now time.Time) ([]*domain.Booking, error) {
	return f.list(func(b *domain.Booking) bool {
		return b.Status == domain.StatusPaymentHeld && b.ExpiryTime.Before(now)
	}, nil)
}

func (f *fakeRepository) Transition(_ context.Context, id string, patch bookingRepo.TransitionPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}

	if b.Status != domain.StatusPaymentHeld {
		return bookingRepo.ErrStaleTransition
	}
	if patch.NotExpiredAfter != nil && b.ExpiryTime.Before(*patch.NotExpiredAfter) {
		return bookingRepo.ErrStaleTransition
	}
	if patch.ExpiredBefore != nil && !b.ExpiryTime.Before(*patch.ExpiredBefore) {
		return bookingRepo.ErrStaleTransition
	}

	b.Status = patch.To
	b.PaymentStatus = patch.PaymentStatus
	b.StatusReason = patch.Reason
	b.StatusChangedAt = time.Now()

	return nil
}

func (f *fakeRepository) list(match func(*domain.Booking) bool, status *domain.BookingStatus) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if !match(b) {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

// fakeTimeProvider провайдер фиксированного времени
type fakeTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

func (p *fakeTimeProvider) Advance(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newTestService(t *testing.T) (*Service, *fakeRepository, *fakeTimeProvider) {
	t.Helper()

	repo := newFakeRepository()
	clock := &fakeTimeProvider{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	return New(repo, clock, noopLogger{}), repo, clock
}

func seedHold(t *testing.T, repo *fakeRepository, clock *fakeTimeProvider, id string) *domain.Booking {
	t.Helper()

	startTime, err := types.NewTimeStringFromString("14:00")
	require.NoError(t, err)

	now := clock.Now()
	booking := &domain.Booking{
		ID:            id,
		CustomerID:    "customer-1",
		CustomerName:  "Anna",
		ShopID:        "shop-1",
		ShopName:      "Fade Factory",
		ServiceName:   "Haircut",
		Price:         45,
		BookingDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:     startTime,
		Status:        domain.StatusPaymentHeld,
		PaymentStatus: domain.PaymentSuccess,
		TransactionID: "txn-" + id,
		CreatedAt:     now,
		ExpiryTime:    now.Add(domain.EscrowWindow),
	}

	created, err := repo.Create(context.Background(), booking)
	require.NoError(t, err)
	return created
}

func TestService_Confirm(t *testing.T) {
	t.Run("confirms open hold before the deadline", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		seedHold(t, svc.repo.(*fakeRepository), clock, "b1")

		resp, err := svc.Confirm(context.Background(), "b1", &models.ConfirmRequest{ShopID: "shop-1"})

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
		assert.Equal(t, string(domain.PaymentSuccess), resp.PaymentStatus)
	})

	t.Run("returns stale error after the deadline and keeps the record intact", func(t *testing.T) {
		svc, repo, clock := newTestService(t)
		seedHold(t, repo, clock, "b1")

		clock.Advance(domain.EscrowWindow + time.Second)

		_, err := svc.Confirm(context.Background(), "b1", &models.ConfirmRequest{ShopID: "shop-1"})
		require.ErrorIs(t, err, ErrStaleTransition)

		stored, err := repo.GetByID(context.Background(), "b1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaymentHeld, stored.Status)
	})

	t.Run("rejects confirmation from another shop", func(t *testing.T) {
		svc, repo, clock := newTestService(t)
		seedHold(t, repo, clock, "b1")

		_, err := svc.Confirm(context.Background(), "b1", &models.ConfirmRequest{ShopID: "shop-2"})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("returns not found for unknown booking", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Confirm(context.Background(), "missing", &models.ConfirmRequest{ShopID: "shop-1"})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_Reject(t *testing.T) {
	t.Run("rejects open hold and refunds", func(t *testing.T) {
		svc, repo, clock := newTestService(t)
		seedHold(t, repo, clock, "b1")

		resp, err := svc.Reject(context.Background(), "b1", &models.DeclineRequest{
			ShopID: "shop-1",
			Reason: "Master is unavailable",
		})

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusRejected), resp.Status)
		assert.Equal(t, string(domain.PaymentRefunded), resp.PaymentStatus)
		require.NotNil(t, resp.StatusReason)
		assert.Equal(t, "Master is unavailable", *resp.StatusReason)
	})

	t.Run("reason is optional", func(t *testing.T) {
		svc, repo, clock := newTestService(t)
		seedHold(t, repo, clock, "b1")

		resp, err := svc.Reject(context.Background(), "b1", &models.DeclineRequest{ShopID: "shop-1"})

		require.NoError(t, err)
		assert.Nil(t, resp.StatusReason)
	})

	t.Run("rejecting a resolved booking is stale", func(t *testing.T) {
		svc, repo, clock := newTestService(t)
		seedHold(t, repo, clock, "b1")

		_, err := svc.Confirm(context.Background(), "b1", &models.ConfirmRequest{ShopID: "shop-1"})
		require.NoError(t, err)

		_, err = svc.Reject(context.Background(), "b1", &models.DeclineRequest{ShopID: "shop-1"})
		assert.ErrorIs(t, err, ErrStaleTransition)
	})
}

func TestService_Abandon(t *testing.T) {
	t.Run("cancels existing hold", func(t *testing.T) {
		svc, repo, clock := newTestService(t)
		seedHold(t, repo, clock, "b1")

		bookingID := "b1"
		resp, err := svc.Abandon(context.Background(), &models.AbandonRequest{
			CustomerID: "customer-1",
			BookingID:  &bookingID,
		})

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCancelled), resp.Status)
		assert.Equal(t, string(domain.PaymentAbandoned), resp.PaymentStatus)
		require.NotNil(t, resp.StatusReason)
		assert.Equal(t, domain.ReasonPaymentAbandoned, *resp.StatusReason)
	})

	t.Run("creates terminal record when no booking exists yet", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		startTime, err := types.NewTimeStringFromString("15:30")
		require.NoError(t, err)

		resp, err := svc.Abandon(context.Background(), &models.AbandonRequest{
			CustomerID: "customer-1",
			Intent: &models.AbandonIntent{
				CustomerName: "Anna",
				ShopID:       "shop-1",
				ShopName:     "Fade Factory",
				ServiceName:  "Haircut",
				Price:        45,
				Date:         time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
				StartTime:    startTime,
			},
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, string(domain.StatusCancelled), resp.Status)
		assert.Equal(t, string(domain.PaymentAbandoned), resp.PaymentStatus)

		stored, err := repo.GetByID(context.Background(), resp.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsTerminal())
	})

	t.Run("denies abandoning someone else's booking", func(t *testing.T) {
		svc, repo, clock := newTestService(t)
		seedHold(t, repo, clock, "b1")

		bookingID := "b1"
		_, err := svc.Abandon(context.Background(), &models.AbandonRequest{
			CustomerID: "customer-2",
			BookingID:  &bookingID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_ExpireOverdue(t *testing.T) {
	t.Run("expires only overdue holds", func(t *testing.T) {
		svc, repo, clock := newTestService(t)
		seedHold(t, repo, clock, "overdue")

		clock.Advance(domain.EscrowWindow + time.Second)
		seedHold(t, repo, clock, "fresh")

		expired, err := svc.ExpireOverdue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, expired)

		overdueBooking, err := repo.GetByID(context.Background(), "overdue")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, overdueBooking.Status)
		assert.Equal(t, domain.PaymentRefunded, overdueBooking.PaymentStatus)
		require.NotNil(t, overdueBooking.StatusReason)
		assert.Equal(t, domain.ReasonAutoRefund, *overdueBooking.StatusReason)

		freshBooking, err := repo.GetByID(context.Background(), "fresh")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaymentHeld, freshBooking.Status)
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		svc, repo, clock := newTestService(t)
		seedHold(t, repo, clock, "overdue")
		clock.Advance(domain.EscrowWindow + time.Second)

		expired, err := svc.ExpireOverdue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, expired)

		expired, err = svc.ExpireOverdue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, expired)
	})
}

// Переход из payment_held происходит ровно один раз, даже когда
// подтверждение партнера гонится с авто-возвратом
func TestService_ConfirmVsExpireRace(t *testing.T) {
	for i := 0; i < 50; i++ {
		svc, repo, clock := newTestService(t)
		seedHold(t, repo, clock, "b1")

		// Дедлайн прошел, но партнер жмет "подтвердить" одновременно со sweep-ом.
		// С точки зрения партнера его запрос ушел до дедлайна.
		confirmDeadline := clock.Now().Add(domain.EscrowWindow)
		clock.Advance(domain.EscrowWindow + time.Second)

		var wg sync.WaitGroup
		var confirmErr, expireErr error
		var expiredCount int

		wg.Add(2)
		go func() {
			defer wg.Done()
			confirmErr = repo.Transition(context.Background(), "b1", bookingRepo.TransitionPatch{
				To:              domain.StatusConfirmed,
				PaymentStatus:   domain.PaymentSuccess,
				NotExpiredAfter: &confirmDeadline,
			})
		}()
		go func() {
			defer wg.Done()
			expiredCount, expireErr = svc.ExpireOverdue(context.Background())
		}()
		wg.Wait()

		confirmed := confirmErr == nil
		expired := expireErr == nil && expiredCount == 1

		// Ровно один из двух переходов выигрывает
		require.True(t, confirmed != expired,
			"expected exactly one winner: confirmErr=%v, expireErr=%v, expiredCount=%d",
			confirmErr, expireErr, expiredCount)

		stored, err := repo.GetByID(context.Background(), "b1")
		require.NoError(t, err)
		assert.True(t, stored.IsTerminal())
		if confirmed {
			assert.Equal(t, domain.StatusConfirmed, stored.Status)
		} else {
			assert.Equal(t, domain.StatusFailed, stored.Status)
		}
	}
}

func TestService_GetShopRequests(t *testing.T) {
	svc, repo, clock := newTestService(t)
	seedHold(t, repo, clock, "b1")

	_, err := svc.Confirm(context.Background(), "b1", &models.ConfirmRequest{ShopID: "shop-1"})
	require.NoError(t, err)

	seedHold(t, repo, clock, "b2")
	clock.Advance(2 * time.Minute)

	resp, err := svc.GetShopRequests(context.Background(), "shop-1")
	require.NoError(t, err)
	require.Len(t, resp.Requests, 1)

	req := resp.Requests[0]
	assert.Equal(t, "b2", req.ID)
	assert.Equal(t, int64((3 * time.Minute).Seconds()), req.RemainingSeconds)
}

func TestService_GetBooking_Access(t *testing.T) {
	svc, repo, clock := newTestService(t)
	seedHold(t, repo, clock, "b1")

	tests := []struct {
		name      string
		requester string
		wantErr   error
	}{
		{name: "customer sees own booking", requester: "customer-1"},
		{name: "shop sees its booking", requester: "shop-1"},
		{name: "stranger is denied", requester: "someone-else", wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetBooking(context.Background(), tt.requester, "b1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "b1", resp.ID)
		})
	}
}
