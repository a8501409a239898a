package reporting

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/hostel-desk/internal/application"
)

// Backup is the flat, re-importable export of the four state records. The
// identifier distinguishes exports taken at the same instant.
type Backup struct {
	ID         string                     `json:"id"`
	ExportDate time.Time                  `json:"exportDate"`
	Rooms      []application.Room         `json:"rooms"`
	Bookings   []application.Booking      `json:"bookings"`
	History    []application.HistoryEntry `json:"history"`
	Settings   application.Settings       `json:"settings"`
}

// Export serializes a state snapshot into an indented JSON backup.
func Export(state application.State, now time.Time) ([]byte, error) {
	backup := Backup{
		ID:         uuid.NewString(),
		ExportDate: now,
		Rooms:      state.Rooms,
		Bookings:   state.Bookings,
		History:    state.History,
		Settings:   state.Settings,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("reporting: encode backup: %w", err)
	}
	return data, nil
}

// Import parses a backup produced by Export back into a state tree, verifying
// the occupancy invariant before handing the state to the caller.
func Import(data []byte) (application.State, error) {
	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return application.State{}, fmt.Errorf("reporting: decode backup: %w", err)
	}

	state := application.State{
		Rooms:    backup.Rooms,
		Bookings: backup.Bookings,
		History:  backup.History,
		Settings: backup.Settings,
	}

	for _, room := range state.Rooms {
		if len(room.Beds) == 0 {
			return application.State{}, fmt.Errorf("reporting: backup invalid: room %d has no beds", room.Number)
		}
		for _, bed := range room.Beds {
			if bed.Occupied != (bed.Booking != nil) {
				return application.State{}, fmt.Errorf("reporting: backup invalid: room %d bed %d occupancy flag disagrees with booking", room.Number, bed.ID)
			}
		}
	}

	return state, nil
}
