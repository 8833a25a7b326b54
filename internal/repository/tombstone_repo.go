package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TombstoneRepository records ids of deleted bookings. The set is
// append-only and never pruned: once an id is tombstoned it must stay
// suppressed no matter how often the relay history replays it.
type TombstoneRepository struct {
	db *gorm.DB
}

func NewTombstoneRepository(db *gorm.DB) *TombstoneRepository {
	return &TombstoneRepository{db: db}
}

type tombstoneModel struct {
	BookingID string    `gorm:"column:booking_id;primaryKey"`
	DeletedAt time.Time `gorm:"column:deleted_at"`
}

func (tombstoneModel) TableName() string { return "tombstones" }

func (r *TombstoneRepository) Add(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]tombstoneModel, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		models = append(models, tombstoneModel{BookingID: id, DeletedAt: now})
	}
	if len(models) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models).Error
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *TombstoneRepository) All(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&tombstoneModel{}).
		Pluck("booking_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *TombstoneRepository) Contains(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&tombstoneModel{}).
		Where("booking_id = ?", id).
		Count(&n).Error
	return n > 0, err
}
