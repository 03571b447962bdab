package dismiss_notification

import "context"

type NotificationService interface {
	Dismiss(ctx context.Context, userID, notificationID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
