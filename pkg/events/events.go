package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Publisher delivers domain events to whatever broker is configured.
// Publish failures are returned so callers can decide to ignore them.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Event is one domain occurrence. Key groups events that must stay ordered,
// usually the id of the user the event concerns.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	TypeBookingCreated       = "booking.created"
	TypeBookingStatusChanged = "booking.status_changed"
	TypeBookingDeleted       = "booking.deleted"
	TypeNotificationToast    = "notification.toast"
)

func NewEvent(eventType, key string, payload any) Event {
	return Event{
		Type:       eventType,
		Key:        key,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) encode() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", e.Type, err)
	}
	return body, nil
}
