package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	notificationRepo "github.com/bbconnect/BBC-BookingService/internal/infra/storage/notification"
	"github.com/bbconnect/BBC-BookingService/internal/service/notifications/models"
	"github.com/bbconnect/BBC-BookingService/pkg/ptr"
)

type fakeBookings struct {
	byCustomer map[string][]*domain.Booking
	byShop     map[string][]*domain.Booking
}

func (f *fakeBookings) GetByCustomerID(_ context.Context, customerID string, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.byCustomer[customerID], nil
}

func (f *fakeBookings) GetByShopID(_ context.Context, shopID string, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.byShop[shopID], nil
}

type fakeNotifications struct {
	broadcasts []*notificationRepo.Broadcast
	dismissed  map[string][]string
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{dismissed: make(map[string][]string)}
}

func (f *fakeNotifications) CreateBroadcast(_ context.Context, b *notificationRepo.Broadcast) (*notificationRepo.Broadcast, error) {
	stored := *b
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	f.broadcasts = append(f.broadcasts, &stored)
	result := stored
	return &result, nil
}

func (f *fakeNotifications) ListBroadcasts(_ context.Context) ([]*notificationRepo.Broadcast, error) {
	return f.broadcasts, nil
}

func (f *fakeNotifications) Dismiss(_ context.Context, userID, notificationID string) error {
	for _, id := range f.dismissed[userID] {
		if id == notificationID {
			return nil
		}
	}
	f.dismissed[userID] = append(f.dismissed[userID], notificationID)
	return nil
}

func (f *fakeNotifications) ListDismissed(_ context.Context, userID string) ([]string, error) {
	return f.dismissed[userID], nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func terminalBooking(id string, status domain.BookingStatus, changedAt time.Time) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		CustomerID:      "customer-1",
		CustomerName:    "Anna",
		ShopID:          "shop-1",
		ShopName:        "Fade Factory",
		ServiceName:     "Haircut",
		Price:           45,
		BookingDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "14:00",
		Status:          status,
		PaymentStatus:   domain.PaymentRefunded,
		StatusChangedAt: changedAt,
	}
}

func TestService_List(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	bookings := &fakeBookings{
		byCustomer: map[string][]*domain.Booking{
			"customer-1": {
				terminalBooking("b1", domain.StatusConfirmed, base.Add(1*time.Minute)),
				terminalBooking("b2", domain.StatusPaymentHeld, base.Add(2*time.Minute)), // открытый холд не попадает в ленту
				terminalBooking("b3", domain.StatusFailed, base.Add(3*time.Minute)),
			},
		},
		byShop: map[string][]*domain.Booking{},
	}
	store := newFakeNotifications()
	store.broadcasts = []*notificationRepo.Broadcast{
		{ID: "x1", Title: "Maintenance", Message: "Short downtime tonight", CreatedAt: base.Add(2 * time.Minute)},
	}

	svc := New(bookings, store, noopLogger{})

	t.Run("merges outcomes and broadcasts, newest first", func(t *testing.T) {
		resp, err := svc.List(context.Background(), "customer-1", nil)
		require.NoError(t, err)

		require.Len(t, resp.Notifications, 3)
		assert.Equal(t, "booking:b3", resp.Notifications[0].ID)
		assert.Equal(t, "broadcast:x1", resp.Notifications[1].ID)
		assert.Equal(t, "booking:b1", resp.Notifications[2].ID)
		assert.True(t, resp.Alert)
	})

	t.Run("alert reflects the since mark", func(t *testing.T) {
		seenAll := base.Add(10 * time.Minute)
		resp, err := svc.List(context.Background(), "customer-1", &seenAll)
		require.NoError(t, err)
		assert.False(t, resp.Alert)

		seenSome := base.Add(2 * time.Minute)
		resp, err = svc.List(context.Background(), "customer-1", &seenSome)
		require.NoError(t, err)
		assert.True(t, resp.Alert)
	})

	t.Run("dismissed notifications are hidden per user", func(t *testing.T) {
		require.NoError(t, svc.Dismiss(context.Background(), "customer-1", "booking:b3"))

		resp, err := svc.List(context.Background(), "customer-1", nil)
		require.NoError(t, err)
		require.Len(t, resp.Notifications, 2)
		for _, n := range resp.Notifications {
			assert.NotEqual(t, "booking:b3", n.ID)
		}
	})

	t.Run("refund outcome carries the refund wording", func(t *testing.T) {
		resp, err := svc.List(context.Background(), "customer-1", nil)
		require.NoError(t, err)

		var refunded *models.NotificationResponse
		for i := range resp.Notifications {
			if resp.Notifications[i].ID == "booking:b1" {
				refunded = &resp.Notifications[i]
			}
		}
		require.NotNil(t, refunded)
		assert.Equal(t, "Booking confirmed", refunded.Title)
	})
}

func TestService_List_RejectionReason(t *testing.T) {
	rejected := terminalBooking("b1", domain.StatusRejected, time.Now())
	rejected.StatusReason = ptr.Ptr("Master is unavailable")

	bookings := &fakeBookings{
		byCustomer: map[string][]*domain.Booking{"customer-1": {rejected}},
		byShop:     map[string][]*domain.Booking{},
	}
	svc := New(bookings, newFakeNotifications(), noopLogger{})

	resp, err := svc.List(context.Background(), "customer-1", nil)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Contains(t, resp.Notifications[0].Message, "Master is unavailable")
}

func TestService_CreateBroadcast(t *testing.T) {
	store := newFakeNotifications()
	svc := New(&fakeBookings{}, store, noopLogger{})

	t.Run("creates broadcast visible to everyone", func(t *testing.T) {
		resp, err := svc.CreateBroadcast(context.Background(), &models.CreateBroadcastRequest{
			Title:   "  New shops  ",
			Message: "Three new partners joined this week",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "New shops", resp.Title)
		require.Len(t, store.broadcasts, 1)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := svc.CreateBroadcast(context.Background(), &models.CreateBroadcastRequest{Message: "no title"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
