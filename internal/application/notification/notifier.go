package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification is a message destined for a customer.
// Channels name delivery mechanisms; the default is in-app.
type Notification struct {
	UserID   uuid.UUID `json:"user_id"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	Channels []string  `json:"channels"`
}

// Notifier delivers customer notifications.
// Implementations can support different channels (in-app, email, SMS, etc.)
type Notifier interface {
	// Send delivers a notification
	Send(ctx context.Context, n Notification) error
}

// LoggingNotifier is a simple notifier that logs notifications.
// This is useful for development and testing.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a new logging notifier
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

// Send logs the notification
func (n *LoggingNotifier) Send(ctx context.Context, msg Notification) error {
	n.logger.Info("NOTIFICATION",
		zap.String("user_id", msg.UserID.String()),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
		zap.Strings("channels", msg.Channels),
	)
	return nil
}

// Ensure LoggingNotifier implements Notifier
var _ Notifier = (*LoggingNotifier)(nil)
