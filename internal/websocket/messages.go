package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	TypeSyncCompleted  MessageType = "calendar.sync_completed"
	TypeSyncError      MessageType = "calendar.sync_error"
	TypeBookingCreated MessageType = "booking.created"
	TypeNotification   MessageType = "notification"
)

// Message is the envelope for every WebSocket message.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// SyncPayload is the payload for calendar.sync_completed events.
type SyncPayload struct {
	PropertyID     string    `json:"property_id"`
	PropertySlug   string    `json:"property_slug"`
	EventsImported int       `json:"events_imported"`
	SyncedAt       time.Time `json:"synced_at"`
}

// SyncErrorPayload is the payload for calendar.sync_error events.
type SyncErrorPayload struct {
	PropertyID   string `json:"property_id"`
	PropertySlug string `json:"property_slug"`
	Message      string `json:"message"`
}

// BookingPayload is the payload for booking.created events.
type BookingPayload struct {
	BookingID  string `json:"booking_id"`
	PropertyID string `json:"property_id"`
	GuestName  string `json:"guest_name"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level   string `json:"level"` // info, warning, error, success
	Title   string `json:"title"`
	Message string `json:"message"`
}
