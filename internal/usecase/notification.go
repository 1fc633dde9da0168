package usecase

import (
	"context"
	"time"

	"venue-booking/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDismissAfter is how long a toast stays on screen.
const DefaultDismissAfter = 4 * time.Second

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationInfo    NotificationKind = "info"
	NotificationWarning NotificationKind = "warning"
	NotificationError   NotificationKind = "error"
)

type Notification struct {
	Kind         NotificationKind `json:"kind"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	DismissAfter time.Duration    `json:"dismiss_after"`
}

func NewNotification(kind NotificationKind, title, message string) Notification {
	return Notification{Kind: kind, Title: title, Message: message, DismissAfter: DefaultDismissAfter}
}

type toastPayload struct {
	RecipientID    string           `json:"recipient_id"`
	Kind           NotificationKind `json:"kind"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	DismissAfterMs int64            `json:"dismiss_after_ms"`
}

// NotificationDispatcher sends toasts to one user. Toasts are keyed by the
// recipient so a user's notifications keep their order.
type NotificationDispatcher struct {
	publisher events.Publisher
	log       *zap.Logger
}

func NewNotificationDispatcher(publisher events.Publisher, log *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		publisher: publisher,
		log:       log.With(zap.String("service", "notification")),
	}
}

// Notify never fails the caller; delivery errors are logged.
func (d *NotificationDispatcher) Notify(ctx context.Context, recipient uuid.UUID, n Notification) {
	if n.DismissAfter <= 0 {
		n.DismissAfter = DefaultDismissAfter
	}

	payload := toastPayload{
		RecipientID:    recipient.String(),
		Kind:           n.Kind,
		Title:          n.Title,
		Message:        n.Message,
		DismissAfterMs: n.DismissAfter.Milliseconds(),
	}

	if err := d.publisher.Publish(ctx, events.NewEvent(events.TypeNotificationToast, recipient.String(), payload)); err != nil {
		d.log.Warn("Failed to dispatch notification",
			zap.Error(err),
			zap.String("recipient_id", recipient.String()),
			zap.String("title", n.Title),
		)
	}
}
