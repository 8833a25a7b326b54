package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkstudio/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) DB() *gorm.DB { return r.db }

type bookingModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Date         time.Time `gorm:"column:date;index"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email"`
	Description  string    `gorm:"column:description;type:text"`
	CustomFields string    `gorm:"column:custom_fields;type:text"`
	Images       string    `gorm:"column:images;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) (*domain.Booking, error) {
	b := &domain.Booking{
		ID:          m.ID,
		Date:        m.Date,
		Name:        m.Name,
		Email:       m.Email,
		Description: m.Description,
	}
	if m.CustomFields != "" {
		if err := json.Unmarshal([]byte(m.CustomFields), &b.CustomFields); err != nil {
			return nil, err
		}
	}
	if m.Images != "" {
		if err := json.Unmarshal([]byte(m.Images), &b.Images); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func toBookingModel(b *domain.Booking) (bookingModel, error) {
	m := bookingModel{
		ID:          b.ID,
		Date:        b.Date,
		Name:        b.Name,
		Email:       b.Email,
		Description: b.Description,
	}
	if len(b.CustomFields) > 0 {
		raw, err := json.Marshal(b.CustomFields)
		if err != nil {
			return m, err
		}
		m.CustomFields = string(raw)
	}
	if len(b.Images) > 0 {
		raw, err := json.Marshal(b.Images)
		if err != nil {
			return m, err
		}
		m.Images = string(raw)
	}
	return m, nil
}

// Create inserts a new booking. A duplicate id surfaces
// domain.ErrDuplicateID, a full store domain.ErrStorageFull.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapWriteError(err)
	}
	return nil
}

// Upsert writes the booking, replacing an existing row with the same id.
// Idempotent: re-upserting an identical record is a no-op in effect.
func (r *BookingRepository) Upsert(ctx context.Context, b *domain.Booking) error {
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&m).Error
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&bookingModel{}).Error
}

// DeleteWithTombstone records the tombstone and removes the row in one
// transaction, so a replayed history can never resurrect a half-deleted
// booking.
func (r *BookingRepository) DeleteWithTombstone(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewTombstoneRepository(tx).Add(ctx, id); err != nil {
			return err
		}
		return NewBookingRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDomainBooking(m)
}

// List returns all bookings ordered by date descending, newest first.
// Ties on date break on id so repeated reads stay stable.
func (r *BookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	var models []bookingModel
	err := r.db.WithContext(ctx).
		Order("date DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		b, err := toDomainBooking(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

// IDs returns the set of locally stored booking ids.
func (r *BookingRepository) IDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *BookingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&bookingModel{}).Count(&n).Error
	return n, err
}
