// Package sync merges the relay topic's event history into the local
// record store. A pass is idempotent and commutative over reruns of the
// same snapshot: tombstones take absolute precedence over any booking
// payload, merge keys strictly on id, and the whole pass applies inside a
// single transaction.
package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"inkstudio/internal/domain"
	"inkstudio/internal/repository"
)

// HistoryFetcher reads back the full topic history.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context) ([]domain.SyncEvent, error)
}

// Notifier receives the result of each completed pass (the admin console
// hub implements it). Nil is fine.
type Notifier interface {
	SyncCompleted(Result)
}

// Result summarises one reconciliation pass. Visits is derived from the
// history for display and never persisted.
type Result struct {
	Events     int       `json:"events"`
	Visits     int       `json:"visits"`
	Imported   int       `json:"imported"`
	Removed    int       `json:"removed"`
	Tombstones int       `json:"tombstones_added"`
	SyncedAt   time.Time `json:"synced_at"`
}

type Service struct {
	store    *repository.SyncStore
	relay    HistoryFetcher
	notifier Notifier
}

func NewService(store *repository.SyncStore, relay HistoryFetcher, notifier Notifier) *Service {
	return &Service{
		store:    store,
		relay:    relay,
		notifier: notifier,
	}
}

// Reconcile fetches the remote history and applies it to local state.
// A fetch failure aborts the pass before anything is touched; a write
// failure rolls the whole pass back. Either every parsed event applies or
// none does.
func (s *Service) Reconcile(ctx context.Context) (*Result, error) {
	events, err := s.relay.FetchHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	res := &Result{Events: len(events), SyncedAt: time.Now().UTC()}

	deleteIDs := make(map[string]struct{})
	var remoteBookings []*domain.Booking
	for i := range events {
		ev := events[i]
		switch ev.Type {
		case domain.EventVisit:
			res.Visits++
		case domain.EventBookingDelete:
			if ev.BookingID != "" {
				deleteIDs[ev.BookingID] = struct{}{}
			}
		case domain.EventBooking:
			if ev.Booking != nil && ev.Booking.ID != "" {
				remoteBookings = append(remoteBookings, ev.Booking)
			}
		}
	}

	err = s.store.InTx(ctx, func(tx *repository.SyncStore) error {
		tombstones, err := tx.Tombstones(ctx)
		if err != nil {
			return err
		}

		var fresh []string
		for id := range deleteIDs {
			if _, ok := tombstones[id]; !ok {
				fresh = append(fresh, id)
			}
		}
		if err := tx.AddTombstones(ctx, fresh); err != nil {
			return err
		}
		for _, id := range fresh {
			tombstones[id] = struct{}{}
		}
		res.Tombstones = len(fresh)

		localIDs, err := tx.BookingIDs(ctx)
		if err != nil {
			return err
		}

		for _, remote := range remoteBookings {
			if _, ok := tombstones[remote.ID]; ok {
				continue
			}
			if _, ok := localIDs[remote.ID]; ok {
				continue
			}
			rec := remote.Stripped()
			if err := tx.InsertBooking(ctx, &rec); err != nil {
				return err
			}
			localIDs[rec.ID] = struct{}{}
			res.Imported++
		}

		// Defensive: a delete observed in this same pass may tombstone a
		// booking that was already held locally.
		var drop []string
		for id := range localIDs {
			if _, ok := tombstones[id]; ok {
				drop = append(drop, id)
			}
		}
		removed, err := tx.DeleteBookings(ctx, drop)
		if err != nil {
			return err
		}
		res.Removed = int(removed)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply history: %w", err)
	}

	log.Printf("sync: pass complete events=%d visits=%d imported=%d removed=%d tombstones=%d",
		res.Events, res.Visits, res.Imported, res.Removed, res.Tombstones)

	if s.notifier != nil {
		s.notifier.SyncCompleted(*res)
	}

	return res, nil
}
