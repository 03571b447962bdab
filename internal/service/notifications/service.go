package notifications

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bbconnect/BBC-BookingService/internal/domain"
	notificationRepo "github.com/bbconnect/BBC-BookingService/internal/infra/storage/notification"
	"github.com/bbconnect/BBC-BookingService/internal/service/notifications/models"
)

const (
	kindBooking   = "booking"
	kindBroadcast = "broadcast"

	maxBroadcastTitleLength   = 200
	maxBroadcastMessageLength = 2000
)

// Service лента уведомлений. Уведомления не хранятся как отдельные записи:
// лента собирается на чтении из терминальных бронирований пользователя
// и бродкастов, за вычетом скрытых.
type Service struct {
	bookings      BookingRepository
	notifications NotificationRepository
	log           Logger
}

// New создает новый экземпляр сервиса уведомлений
func New(bookings BookingRepository, notifications NotificationRepository, log Logger) *Service {
	return &Service{
		bookings:      bookings,
		notifications: notifications,
		log:           log,
	}
}

type feedItem struct {
	notification models.NotificationResponse
	createdAt    time.Time
}

// List возвращает ленту пользователя, последние события первыми.
// since отметка последнего просмотра: Alert взводится, если есть
// события новее нее.
func (s *Service) List(ctx context.Context, userID string, since *time.Time) (*models.NotificationListResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: List - user id is required", ErrInvalidInput)
	}

	items, err := s.collect(ctx, userID)
	if err != nil {
		return nil, err
	}

	dismissed, err := s.notifications.ListDismissed(ctx, userID)
	if err != nil {
		s.log.Error("List failed to load dismissals: user_id=%s, error=%v", userID, err)
		return nil, fmt.Errorf("%w: List - %v", ErrInternal, err)
	}
	hidden := make(map[string]struct{}, len(dismissed))
	for _, id := range dismissed {
		hidden[id] = struct{}{}
	}

	visible := make([]feedItem, 0, len(items))
	for _, item := range items {
		if _, ok := hidden[item.notification.ID]; ok {
			continue
		}
		visible = append(visible, item)
	}

	sort.Slice(visible, func(i, j int) bool {
		return visible[i].createdAt.After(visible[j].createdAt)
	})

	resp := &models.NotificationListResponse{
		Notifications: make([]models.NotificationResponse, 0, len(visible)),
	}
	for _, item := range visible {
		resp.Notifications = append(resp.Notifications, item.notification)
		if since == nil || item.createdAt.After(*since) {
			resp.Alert = true
		}
	}

	return resp, nil
}

// Dismiss скрывает уведомление для пользователя. Идемпотентно.
func (s *Service) Dismiss(ctx context.Context, userID, notificationID string) error {
	if userID == "" || notificationID == "" {
		return fmt.Errorf("%w: Dismiss - user id and notification id are required", ErrInvalidInput)
	}

	if err := s.notifications.Dismiss(ctx, userID, notificationID); err != nil {
		s.log.Error("Dismiss failed: user_id=%s, notification_id=%s, error=%v", userID, notificationID, err)
		return fmt.Errorf("%w: Dismiss - %v", ErrInternal, err)
	}

	return nil
}

// CreateBroadcast публикует административное сообщение для всех пользователей
func (s *Service) CreateBroadcast(ctx context.Context, req *models.CreateBroadcastRequest) (*models.BroadcastResponse, error) {
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)

	if title == "" || message == "" {
		return nil, fmt.Errorf("%w: CreateBroadcast - title and message are required", ErrInvalidInput)
	}
	if len(title) > maxBroadcastTitleLength {
		return nil, fmt.Errorf("%w: CreateBroadcast - title must not exceed %d characters", ErrInvalidInput, maxBroadcastTitleLength)
	}
	if len(message) > maxBroadcastMessageLength {
		return nil, fmt.Errorf("%w: CreateBroadcast - message must not exceed %d characters", ErrInvalidInput, maxBroadcastMessageLength)
	}

	created, err := s.notifications.CreateBroadcast(ctx, &notificationRepo.Broadcast{
		ID:      uuid.New().String(),
		Title:   title,
		Message: message,
	})
	if err != nil {
		s.log.Error("CreateBroadcast failed: error=%v", err)
		return nil, fmt.Errorf("%w: CreateBroadcast - %v", ErrInternal, err)
	}

	s.log.Info("Broadcast created: broadcast_id=%s, title=%s", created.ID, created.Title)

	return &models.BroadcastResponse{
		ID:        created.ID,
		Title:     created.Title,
		Message:   created.Message,
		CreatedAt: created.CreatedAt.Format(time.RFC3339),
	}, nil
}

// collect собирает сырые элементы ленты: исходы бронирований пользователя
// (как клиента и как партнера) и бродкасты
func (s *Service) collect(ctx context.Context, userID string) ([]feedItem, error) {
	asCustomer, err := s.bookings.GetByCustomerID(ctx, userID, nil)
	if err != nil {
		s.log.Error("List failed to load customer bookings: user_id=%s, error=%v", userID, err)
		return nil, fmt.Errorf("%w: List - %v", ErrInternal, err)
	}

	asShop, err := s.bookings.GetByShopID(ctx, userID, nil)
	if err != nil {
		s.log.Error("List failed to load shop bookings: user_id=%s, error=%v", userID, err)
		return nil, fmt.Errorf("%w: List - %v", ErrInternal, err)
	}

	items := make([]feedItem, 0, len(asCustomer)+len(asShop))
	seen := make(map[string]struct{})

	for _, booking := range append(asCustomer, asShop...) {
		if !booking.IsTerminal() {
			continue
		}
		id := kindBooking + ":" + booking.ID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		title, message := bookingNotificationText(booking, booking.CustomerID == userID)
		items = append(items, feedItem{
			notification: models.NotificationResponse{
				ID:        id,
				Kind:      kindBooking,
				Title:     title,
				Message:   message,
				CreatedAt: booking.StatusChangedAt.Format(time.RFC3339),
			},
			createdAt: booking.StatusChangedAt,
		})
	}

	broadcasts, err := s.notifications.ListBroadcasts(ctx)
	if err != nil {
		s.log.Error("List failed to load broadcasts: user_id=%s, error=%v", userID, err)
		return nil, fmt.Errorf("%w: List - %v", ErrInternal, err)
	}

	for _, b := range broadcasts {
		items = append(items, feedItem{
			notification: models.NotificationResponse{
				ID:        kindBroadcast + ":" + b.ID,
				Kind:      kindBroadcast,
				Title:     b.Title,
				Message:   b.Message,
				CreatedAt: b.CreatedAt.Format(time.RFC3339),
			},
			createdAt: b.CreatedAt,
		})
	}

	return items, nil
}

// bookingNotificationText строит текст уведомления по исходу бронирования
func bookingNotificationText(b *domain.Booking, asCustomer bool) (string, string) {
	when := fmt.Sprintf("%s at %s", b.BookingDate.Format(domain.DateFormat), b.StartTime.String())

	switch b.Status {
	case domain.StatusConfirmed:
		if asCustomer {
			return "Booking confirmed",
				fmt.Sprintf("%s confirmed your %s on %s", b.ShopName, b.ServiceName, when)
		}
		return "Booking confirmed",
			fmt.Sprintf("You confirmed %s for %s on %s", b.ServiceName, b.CustomerName, when)

	case domain.StatusRejected:
		message := fmt.Sprintf("%s declined your %s on %s", b.ShopName, b.ServiceName, when)
		if b.StatusReason != nil && *b.StatusReason != "" {
			message += ": " + *b.StatusReason
		}
		if !asCustomer {
			message = fmt.Sprintf("You declined %s for %s on %s", b.ServiceName, b.CustomerName, when)
		}
		return "Booking declined", message

	case domain.StatusFailed:
		if asCustomer {
			return "Booking refunded",
				fmt.Sprintf("%s did not respond in time, your payment for %s on %s was refunded", b.ShopName, b.ServiceName, when)
		}
		return "Booking expired",
			fmt.Sprintf("Request from %s for %s on %s expired without a response", b.CustomerName, b.ServiceName, when)

	default: // cancelled
		return "Booking cancelled",
			fmt.Sprintf("Payment for %s on %s was cancelled, the slot was not booked", b.ServiceName, when)
	}
}
