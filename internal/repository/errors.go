package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"inkstudio/internal/domain"
)

// mapWriteError translates driver-level write failures into domain errors.
// Storage exhaustion must surface to the caller as a recoverable condition,
// never as a silent drop or a generic 500.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateID
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return domain.ErrDuplicateID
		case strings.HasPrefix(pgErr.Code, "53"):
			// Class 53: insufficient resources (disk_full and friends).
			return domain.ErrStorageFull
		}
		return err
	}

	// modernc/sqlite reports SQLITE_FULL by message.
	msg := err.Error()
	if strings.Contains(msg, "database or disk is full") || strings.Contains(msg, "SQLITE_FULL") {
		return domain.ErrStorageFull
	}
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return domain.ErrDuplicateID
	}

	return err
}
