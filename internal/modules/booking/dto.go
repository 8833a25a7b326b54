package booking

import "inkstudio/internal/domain"

// AttachmentInput is one client-side file, already read into a data URI.
type AttachmentInput struct {
	Name string `json:"name"`
	Data string `json:"data" binding:"required"`
}

type CreateBookingRequest struct {
	Name         string            `json:"name" binding:"required"`
	Email        string            `json:"email" binding:"required,email"`
	CustomFields map[string]string `json:"customFields"`
	Images       []AttachmentInput `json:"images"`
}

// CreateBookingResult reports the persisted record plus any per-file
// warnings (over-cap truncation, images that failed to decode).
type CreateBookingResult struct {
	Booking  *domain.Booking `json:"booking"`
	Warnings []string        `json:"warnings,omitempty"`
}
