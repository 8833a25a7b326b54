package booking

import (
	"context"

	"inkstudio/internal/domain"
	"inkstudio/internal/relay"
)

// BookingRepository defines the local-store operations the service needs.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	DeleteWithTombstone(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
}

// EventPublisher pushes messages to the shared relay topic. Every call is
// best-effort: the service logs failures and never lets them fail an
// operation whose local write already succeeded.
type EventPublisher interface {
	Publish(ctx context.Context, body []byte, opts *relay.PublishOptions) error
	PublishEvent(ctx context.Context, ev domain.SyncEvent) error
}
