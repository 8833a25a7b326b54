// Package migration carries the one-shot import from the site's previous
// persistence layer: a single key/value table of JSON blobs, the server
// analog of the old page's localStorage keys. The import runs once, is
// recorded under a completion marker, and never reruns.
package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"inkstudio/internal/domain"
	"inkstudio/internal/repository"
)

// Legacy key names, kept verbatim from the old storage layer.
const (
	legacyBookings   = "tattoo_bookings"
	legacyPortfolio  = "tattoo_portfolio"
	legacyFormFields = "tattoo_form_fields"
	legacyHomeImage  = "tattoo_home_image"
)

type legacyModel struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value;type:text"`
}

func (legacyModel) TableName() string { return "legacy_store" }

// legacyBooking matches the old on-disk record shape, where date is an
// ISO-8601 string rather than a native timestamp.
type legacyBooking struct {
	ID           string                `json:"id"`
	Date         string                `json:"date"`
	Name         string                `json:"name"`
	Email        string                `json:"email"`
	Description  string                `json:"description"`
	CustomFields map[string]string     `json:"customFields"`
	Images       []domain.BookingImage `json:"images"`
}

// RunLegacyImport imports the legacy key/value data into the structured
// store, exactly once. The import only considers an empty store: if any
// booking already exists, or the marker is set, nothing happens.
func RunLegacyImport(ctx context.Context, db *gorm.DB) error {
	settings := repository.NewSettingsRepository(db)

	if _, done, err := settings.Get(ctx, repository.KeyLegacyImportDone); err != nil {
		return err
	} else if done {
		return nil
	}

	markDone := func(s *repository.SettingsRepository) error {
		return s.Put(ctx, repository.KeyLegacyImportDone, time.Now().UTC().Format(time.RFC3339))
	}

	count, err := repository.NewBookingRepository(db).Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 || !db.Migrator().HasTable(&legacyModel{}) {
		return markDone(settings)
	}

	var rows []legacyModel
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return err
	}
	byKey := make(map[string]string, len(rows))
	for _, row := range rows {
		byKey[row.Key] = row.Value
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txSettings := repository.NewSettingsRepository(tx)
		txBookings := repository.NewBookingRepository(tx)

		imported := 0
		if raw, ok := byKey[legacyBookings]; ok && raw != "" {
			var legacy []legacyBooking
			if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
				return fmt.Errorf("legacy bookings: %w", err)
			}
			for _, lb := range legacy {
				if lb.ID == "" {
					continue
				}
				date, err := time.Parse(time.RFC3339, lb.Date)
				if err != nil {
					date = time.Now().UTC()
				}
				b := &domain.Booking{
					ID:           lb.ID,
					Date:         date,
					Name:         lb.Name,
					Email:        lb.Email,
					Description:  lb.Description,
					CustomFields: lb.CustomFields,
					Images:       lb.Images,
				}
				if err := txBookings.Upsert(ctx, b); err != nil {
					return err
				}
				imported++
			}
		}

		for legacyKey, key := range map[string]string{
			legacyPortfolio:  repository.KeyPortfolio,
			legacyFormFields: repository.KeyFormFields,
		} {
			raw, ok := byKey[legacyKey]
			if !ok || raw == "" {
				continue
			}
			if !json.Valid([]byte(raw)) {
				log.Printf("migration: skipping malformed legacy value %q", legacyKey)
				continue
			}
			if err := txSettings.Put(ctx, key, raw); err != nil {
				return err
			}
		}

		if raw, ok := byKey[legacyHomeImage]; ok && raw != "" {
			if err := txSettings.Put(ctx, repository.KeyHomeImage, raw); err != nil {
				return err
			}
		}

		if imported > 0 || len(byKey) > 0 {
			log.Printf("migration: imported legacy data bookings=%d keys=%d", imported, len(byKey))
		}

		return markDone(txSettings)
	})
}
