// Package statestore round-trips the application state through the four flat
// JSON records of the record store: rooms, active bookings, checkout history,
// and settings. Each record is independently addressable and carries no schema
// version; the JSON shapes are the legacy storage format.
package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/hostel-desk/internal/application"
	"github.com/example/hostel-desk/internal/persistence"
)

// Store adapts a persistence.RecordStore to the application's StateStore port.
type Store struct {
	records persistence.RecordStore
}

// New wraps the given record store.
func New(records persistence.RecordStore) *Store {
	return &Store{records: records}
}

// Load reads the four records into a state tree. found reports whether a rooms
// record was ever persisted; that presence, not the room count, is the
// first-run signal. Records absent individually fall back to empty collections
// and default settings.
func (s *Store) Load(ctx context.Context) (application.State, bool, error) {
	state := application.State{Settings: application.DefaultSettings()}

	found := true
	if err := s.loadRecord(ctx, persistence.KeyRooms, &state.Rooms); err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			return application.State{}, false, err
		}
		found = false
	}
	if err := s.loadRecord(ctx, persistence.KeyBookings, &state.Bookings); err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return application.State{}, false, err
	}
	if err := s.loadRecord(ctx, persistence.KeyHistory, &state.History); err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return application.State{}, false, err
	}
	if err := s.loadRecord(ctx, persistence.KeySettings, &state.Settings); err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return application.State{}, false, err
	}

	return state, found, nil
}

func (s *Store) loadRecord(ctx context.Context, key string, target any) error {
	data, err := s.records.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("statestore: decode %s: %w", key, err)
	}
	return nil
}

// Save writes the full snapshot. Every mutating operation overwrites all four
// records; there are no partial writes and no transactions across records.
func (s *Store) Save(ctx context.Context, state *application.State) error {
	if state == nil {
		return fmt.Errorf("statestore: nil state")
	}

	if err := s.saveRecord(ctx, persistence.KeyRooms, nonNilRooms(state.Rooms)); err != nil {
		return err
	}
	if err := s.saveRecord(ctx, persistence.KeyBookings, nonNilBookings(state.Bookings)); err != nil {
		return err
	}
	if err := s.saveRecord(ctx, persistence.KeyHistory, nonNilHistory(state.History)); err != nil {
		return err
	}
	return s.saveRecord(ctx, persistence.KeySettings, state.Settings)
}

func (s *Store) saveRecord(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("statestore: encode %s: %w", key, err)
	}
	return s.records.Put(ctx, key, data)
}

// Wipe deletes all four records so the next Load reports a first run.
func (s *Store) Wipe(ctx context.Context) error {
	for _, key := range []string{
		persistence.KeyRooms,
		persistence.KeyBookings,
		persistence.KeyHistory,
		persistence.KeySettings,
	} {
		if err := s.records.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Empty collections persist as [] rather than null so a present-but-empty
// rooms record stays distinguishable from a missing one after reload.

func nonNilRooms(rooms []application.Room) []application.Room {
	if rooms == nil {
		return []application.Room{}
	}
	return rooms
}

func nonNilBookings(bookings []application.Booking) []application.Booking {
	if bookings == nil {
		return []application.Booking{}
	}
	return bookings
}

func nonNilHistory(history []application.HistoryEntry) []application.HistoryEntry {
	if history == nil {
		return []application.HistoryEntry{}
	}
	return history
}
