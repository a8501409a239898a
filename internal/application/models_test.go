package application

import (
	"context"
	"testing"
	"time"
)

func TestNightsComputation(t *testing.T) {
	checkIn := date(2024, time.March, 1)

	cases := []struct {
		name     string
		checkOut time.Time
		planned  int
		billed   int
	}{
		{"three nights", date(2024, time.March, 4), 3, 3},
		{"one night", date(2024, time.March, 2), 1, 1},
		{"same day clamps billing", checkIn, 0, 1},
		{"partial day rounds up", checkIn.Add(36 * time.Hour), 2, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PlannedNights(checkIn, tc.checkOut); got != tc.planned {
				t.Fatalf("expected %d planned nights, got %d", tc.planned, got)
			}
			if got := BilledNights(checkIn, tc.checkOut); got != tc.billed {
				t.Fatalf("expected %d billed nights, got %d", tc.billed, got)
			}
		})
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	state := testState(1, 2, 500)
	service := testBookingService(state, nil)

	booking, err := service.CreateBooking(context.Background(), CreateBookingParams{RoomID: 1, BedID: 1, Input: validInput()})
	if err != nil {
		t.Fatalf("expected booking to succeed, got %v", err)
	}

	snapshot := state.Snapshot()

	// Mutations after snapshotting must not leak into the copy.
	if _, err := service.Checkout(context.Background(), booking.ID, date(2024, time.March, 4)); err != nil {
		t.Fatalf("expected checkout to succeed, got %v", err)
	}

	if len(snapshot.Bookings) != 1 {
		t.Fatalf("expected the snapshot to keep the active booking, got %d", len(snapshot.Bookings))
	}
	bed := snapshot.Rooms[0].Beds[0]
	if !bed.Occupied || bed.Booking == nil || bed.Booking.GuestName != "Ivanov" {
		t.Fatal("expected the snapshot bed to stay occupied with its booking copy")
	}
}

func TestDateHelpers(t *testing.T) {
	afternoon := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)
	midnight := date(2024, time.March, 10)

	if !DateOf(afternoon).Equal(midnight) {
		t.Fatalf("expected truncation to midnight, got %v", DateOf(afternoon))
	}
	if !SameDay(afternoon, midnight) {
		t.Fatal("expected the same calendar day")
	}
	if SameDay(afternoon, midnight.AddDate(0, 0, 1)) {
		t.Fatal("expected different days")
	}
}
