package domain

import "time"

// BookingImage is one reference attachment, recompressed and stored as a
// self-describing data URI. Attachments never leave the device that
// collected them: the copy published to the relay always has Images emptied.
type BookingImage struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

type Booking struct {
	ID           string            `json:"id"`
	Date         time.Time         `json:"date"`
	Name         string            `json:"name" validate:"required"`
	Email        string            `json:"email" validate:"required,email"`
	Description  string            `json:"description,omitempty"`
	CustomFields map[string]string `json:"customFields,omitempty"`
	Images       []BookingImage    `json:"images,omitempty"`
}

// Stripped returns the copy that is safe to publish remotely: same record,
// images removed.
func (b Booking) Stripped() Booking {
	b.Images = nil
	return b
}
