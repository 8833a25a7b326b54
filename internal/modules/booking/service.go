package booking

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"inkstudio/internal/domain"
	"inkstudio/internal/pkg/imgutil"
	"inkstudio/internal/relay"
)

// MaxAttachments caps the number of reference images per booking. Extra
// files are truncated with a warning, never silently accepted.
const MaxAttachments = 20

type Service struct {
	bookings BookingRepository
	relay    EventPublisher
	deviceID string
}

func NewService(bookings BookingRepository, relay EventPublisher, deviceID string) *Service {
	return &Service{
		bookings: bookings,
		relay:    relay,
		deviceID: deviceID,
	}
}

// Create collects the submitted fields and attachments into a booking
// record, persists it locally, then best-effort publishes a stripped copy
// and a plain-text notification. The submission is successful the moment
// the local write succeeds; relay failures are background noise.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, ErrValidation
	}

	var warnings []string

	inputs := req.Images
	if len(inputs) > MaxAttachments {
		warnings = append(warnings, fmt.Sprintf(
			"You can upload a maximum of %d photos. Only the first %d will be used.",
			MaxAttachments, MaxAttachments))
		inputs = inputs[:MaxAttachments]
	}

	images := make([]domain.BookingImage, 0, len(inputs))
	for _, in := range inputs {
		compressed, err := imgutil.CompressDataURI(in.Data)
		if err != nil {
			log.Printf("booking: skipping image %q: %v", in.Name, err)
			warnings = append(warnings, fmt.Sprintf("Image %q could not be processed and was skipped.", in.Name))
			continue
		}
		images = append(images, domain.BookingImage{Name: in.Name, Data: compressed})
	}

	now := time.Now().UTC()
	b := &domain.Booking{
		ID:           strconv.FormatInt(now.UnixMilli(), 10),
		Date:         now,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Description:  req.CustomFields["description"],
		CustomFields: req.CustomFields,
		Images:       images,
	}

	// Local durability first. A failed write is fatal to the submission
	// and must reach the user; nothing is published for a record that was
	// never stored.
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	stripped := b.Stripped()
	ev := domain.SyncEvent{
		Type:      domain.EventBooking,
		DeviceID:  s.deviceID,
		Timestamp: now,
		Booking:   &stripped,
	}
	if err := s.relay.PublishEvent(ctx, ev); err != nil {
		log.Printf("booking: publish booking event: %v", err)
	}

	notify := fmt.Sprintf("New Booking Request from %s", b.Name)
	err := s.relay.Publish(ctx, []byte(notify), &relay.PublishOptions{
		Title:    "New Booking Request",
		Priority: "urgent",
		Tags:     "tattoo,new_booking",
	})
	if err != nil {
		log.Printf("booking: publish notification: %v", err)
	}

	return &CreateBookingResult{Booking: b, Warnings: warnings}, nil
}

// List returns all local bookings, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

// Delete tombstones and removes the booking in one transaction, then
// best-effort publishes the deletion so other devices learn of it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrValidation
	}

	if err := s.bookings.DeleteWithTombstone(ctx, id); err != nil {
		return err
	}

	ev := domain.SyncEvent{
		Type:      domain.EventBookingDelete,
		DeviceID:  s.deviceID,
		Timestamp: time.Now().UTC(),
		BookingID: id,
	}
	if err := s.relay.PublishEvent(ctx, ev); err != nil {
		log.Printf("booking: publish delete event: %v", err)
	}

	return nil
}

// RecordVisit publishes an analytics ping. Purely best-effort.
func (s *Service) RecordVisit(ctx context.Context) {
	ev := domain.SyncEvent{
		Type:      domain.EventVisit,
		DeviceID:  s.deviceID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.relay.PublishEvent(ctx, ev); err != nil {
		log.Printf("booking: publish visit event: %v", err)
	}
}
