package websocket

import (
	"log"

	"github.com/villarosa-rentals/backend/internal/storage/models"
)

// EventBroadcaster turns domain events into WebSocket broadcasts.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastSyncResult sends a sync completion or error event for one
// property's sync pass.
func (b *EventBroadcaster) BroadcastSyncResult(result models.SyncResult) {
	if result.Success {
		b.broadcast(NewMessage(TypeSyncCompleted, SyncPayload{
			PropertyID:     result.PropertyID,
			PropertySlug:   result.PropertySlug,
			EventsImported: result.EventsImported,
			SyncedAt:       result.SyncedAt,
		}))
		return
	}

	b.broadcast(NewMessage(TypeSyncError, SyncErrorPayload{
		PropertyID:   result.PropertyID,
		PropertySlug: result.PropertySlug,
		Message:      result.Error,
	}))
}

// BroadcastBookingCreated announces a new confirmed booking.
func (b *EventBroadcaster) BroadcastBookingCreated(booking models.Booking) {
	b.broadcast(NewMessage(TypeBookingCreated, BookingPayload{
		BookingID:  booking.ID,
		PropertyID: booking.PropertyID,
		GuestName:  booking.GuestName,
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
	}))
}

// BroadcastNotification sends a free-form notification to all clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	b.broadcast(NewMessage(TypeNotification, NotificationPayload{
		Level:   level,
		Title:   title,
		Message: message,
	}))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Error encoding WebSocket message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}
