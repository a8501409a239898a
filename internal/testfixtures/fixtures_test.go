package testfixtures

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/example/hostel-desk/internal/application"
	"github.com/example/hostel-desk/internal/persistence/sqlite"
	"github.com/example/hostel-desk/internal/persistence/statestore"
)

func openStateStore(t *testing.T) *statestore.Store {
	t.Helper()
	records, err := sqlite.Open(filepath.Join(t.TempDir(), "hostel.db"))
	if err != nil {
		t.Fatalf("expected record store to open, got %v", err)
	}
	t.Cleanup(func() { _ = records.Close() })
	return statestore.New(records)
}

func TestStateWithRooms(t *testing.T) {
	state := StateWithRooms(3, 2, 400)
	if len(state.Rooms) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(state.Rooms))
	}
	for _, room := range state.Rooms {
		if len(room.Beds) != 2 || room.Price != 400 {
			t.Fatalf("room %d: expected 2 beds at 400, got %d at %d", room.Number, len(room.Beds), room.Price)
		}
	}
}

func TestServicesFullLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openStateStore(t)

	svc := NewServices(application.NewState(), store)
	if err := svc.Inventory.Bootstrap(ctx); err != nil {
		t.Fatalf("expected bootstrap to succeed, got %v", err)
	}

	booking, err := svc.Booking.CreateBooking(ctx, application.CreateBookingParams{
		RoomID: 4,
		BedID:  1,
		Input: application.BookingInput{
			GuestName:     "Ivanov",
			PricePerNight: 750,
			CheckIn:       time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			CheckOut:      time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("expected booking to succeed, got %v", err)
	}

	// A second process over the same file sees the identical state tree.
	reloaded := NewServices(application.NewState(), store)
	if err := reloaded.Inventory.Bootstrap(ctx); err != nil {
		t.Fatalf("expected reload to succeed, got %v", err)
	}
	if diff := cmp.Diff(*svc.State, *reloaded.State, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("reloaded state differs (-original +reloaded):\n%s", diff)
	}

	entry, err := reloaded.Booking.Checkout(ctx, booking.ID, time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected checkout to succeed, got %v", err)
	}
	if entry.Nights != 3 || entry.TotalPrice != 2250 {
		t.Fatalf("expected 3 nights for 2250, got %d for %d", entry.Nights, entry.TotalPrice)
	}

	stats := reloaded.Query.Occupancy()
	if stats.OccupiedBeds != 0 {
		t.Fatalf("expected all beds free after checkout, got %d occupied", stats.OccupiedBeds)
	}
	if got := reloaded.Query.MonthRevenue(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)); got != 2250 {
		t.Fatalf("expected March revenue 2250, got %d", got)
	}
}
