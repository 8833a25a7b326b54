package repository

import (
	"context"

	"gorm.io/gorm"

	"inkstudio/internal/domain"
)

// SyncStore is the reconciler's view of local state: bookings plus the
// tombstone set, with a transaction boundary wide enough to cover one whole
// reconciliation pass. Either every effect of a pass lands or none does.
type SyncStore struct {
	db         *gorm.DB
	bookings   *BookingRepository
	tombstones *TombstoneRepository
}

func NewSyncStore(db *gorm.DB) *SyncStore {
	return &SyncStore{
		db:         db,
		bookings:   NewBookingRepository(db),
		tombstones: NewTombstoneRepository(db),
	}
}

// InTx runs fn against a transaction-scoped store. Any error rolls the
// whole pass back.
func (s *SyncStore) InTx(ctx context.Context, fn func(tx *SyncStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewSyncStore(tx))
	})
}

func (s *SyncStore) BookingIDs(ctx context.Context) (map[string]struct{}, error) {
	return s.bookings.IDs(ctx)
}

func (s *SyncStore) InsertBooking(ctx context.Context, b *domain.Booking) error {
	return s.bookings.Create(ctx, b)
}

// DeleteBookings removes every local booking whose id is listed and
// reports how many rows went away.
func (s *SyncStore) DeleteBookings(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&bookingModel{})
	return res.RowsAffected, res.Error
}

func (s *SyncStore) Tombstones(ctx context.Context) (map[string]struct{}, error) {
	return s.tombstones.All(ctx)
}

func (s *SyncStore) AddTombstones(ctx context.Context, ids []string) error {
	return s.tombstones.Add(ctx, ids...)
}
