package domain

import "time"

type EventType string

const (
	EventVisit         EventType = "visit"
	EventBooking       EventType = "booking"
	EventBookingDelete EventType = "booking_delete"
)

// SyncEvent is the application-level envelope published to and read back
// from the relay topic. The relay itself is untrusted shared transport; the
// local store stays the only durable source of truth per device.
type SyncEvent struct {
	Type      EventType `json:"type"`
	DeviceID  string    `json:"device,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Booking carries the stripped record for EventBooking.
	Booking *Booking `json:"data,omitempty"`

	// BookingID identifies the deleted record for EventBookingDelete.
	BookingID string `json:"id,omitempty"`
}
