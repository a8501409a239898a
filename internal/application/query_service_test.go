package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testQueryService(state *State, now time.Time) *QueryService {
	return NewQueryService(state, func() time.Time { return now })
}

func activeBooking(id int64, guest string, checkIn, checkOut time.Time) Booking {
	return Booking{
		ID:            id,
		RoomID:        1,
		RoomNumber:    1,
		BedID:         1,
		GuestName:     guest,
		PricePerNight: 500,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
	}
}

func TestActiveBookingsFilters(t *testing.T) {
	today := date(2024, time.March, 10)
	state := NewState()
	state.Bookings = []Booking{
		activeBooking(1, "arrives today", today, today.AddDate(0, 0, 3)),
		activeBooking(2, "leaves tomorrow", today.AddDate(0, 0, -2), today.AddDate(0, 0, 1)),
		activeBooking(3, "long stay", today.AddDate(0, 0, -5), today.AddDate(0, 0, 10)),
	}
	checkedOut := activeBooking(4, "already gone", today.AddDate(0, 0, -3), today)
	checkedOut.CheckedOut = true
	state.Bookings = append(state.Bookings, checkedOut)

	service := testQueryService(state, today)
	ctx := context.Background()

	all, err := service.ActiveBookings(ctx, FilterAll)
	if err != nil {
		t.Fatalf("expected listing to succeed, got %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 active bookings, got %d", len(all))
	}

	todayOnly, err := service.ActiveBookings(ctx, FilterToday)
	if err != nil {
		t.Fatalf("expected listing to succeed, got %v", err)
	}
	if len(todayOnly) != 1 || todayOnly[0].ID != 1 {
		t.Fatalf("expected only the today check-in, got %+v", todayOnly)
	}

	tomorrowOnly, err := service.ActiveBookings(ctx, FilterTomorrow)
	if err != nil {
		t.Fatalf("expected listing to succeed, got %v", err)
	}
	if len(tomorrowOnly) != 1 || tomorrowOnly[0].ID != 2 {
		t.Fatalf("expected only the tomorrow check-out, got %+v", tomorrowOnly)
	}

	if _, err := service.ActiveBookings(ctx, Filter("yesterday")); err == nil {
		t.Fatal("expected an unknown filter to fail validation")
	}
}

func TestActiveBookingsSortedByCheckoutStable(t *testing.T) {
	today := date(2024, time.March, 10)
	sameDay := today.AddDate(0, 0, 5)
	state := NewState()
	state.Bookings = []Booking{
		activeBooking(1, "first encountered", today, sameDay),
		activeBooking(2, "leaves sooner", today, today.AddDate(0, 0, 2)),
		activeBooking(3, "second encountered", today, sameDay),
	}

	service := testQueryService(state, today)
	got, err := service.ActiveBookings(context.Background(), FilterAll)
	if err != nil {
		t.Fatalf("expected listing to succeed, got %v", err)
	}

	wantOrder := []int64{2, 1, 3}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("position %d: expected booking %d, got %d", i, want, got[i].ID)
		}
	}
}

func TestOccupancyStats(t *testing.T) {
	state := testState(2, 3, 500)
	state.Rooms[0].Beds[0].Occupied = true
	state.Rooms[0].Beds[0].Booking = &Booking{ID: 1}
	state.Rooms[1].Beds[2].Occupied = true
	state.Rooms[1].Beds[2].Booking = &Booking{ID: 2}

	service := testQueryService(state, date(2024, time.March, 10))

	stats := service.Occupancy()
	want := OccupancyStats{TotalBeds: 6, OccupiedBeds: 2, FreeBeds: 4, OccupancyRate: 33}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Fatalf("unexpected stats (-want +got):\n%s", diff)
	}

	// Idempotence: a second read without an intervening mutation is identical.
	if diff := cmp.Diff(stats, service.Occupancy()); diff != "" {
		t.Fatalf("stats changed without a mutation (-first +second):\n%s", diff)
	}
}

func TestOccupancyStatsEmptyInventory(t *testing.T) {
	service := testQueryService(NewState(), date(2024, time.March, 10))
	stats := service.Occupancy()
	if stats.OccupancyRate != 0 || stats.TotalBeds != 0 {
		t.Fatalf("expected zeroed stats for empty inventory, got %+v", stats)
	}
}

func TestRoomOccupancies(t *testing.T) {
	state := testState(2, 4, 500)
	state.Rooms[1].Beds[0].Occupied = true
	state.Rooms[1].Beds[0].Booking = &Booking{ID: 1}

	service := testQueryService(state, date(2024, time.March, 10))
	rows := service.RoomOccupancies()
	want := []RoomOccupancy{
		{RoomNumber: 1, TotalBeds: 4, Occupied: 0, Free: 4, Percent: 0},
		{RoomNumber: 2, TotalBeds: 4, Occupied: 1, Free: 3, Percent: 25},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestMonthRevenueAttributesByCheckIn(t *testing.T) {
	state := NewState()
	state.History = []HistoryEntry{
		{Booking: Booking{GuestName: "february guest", CheckIn: date(2024, time.February, 28)}, TotalPrice: 500},
		{Booking: Booking{GuestName: "march guest", CheckIn: date(2024, time.March, 1)}, TotalPrice: 300},
	}

	service := testQueryService(state, date(2024, time.March, 15))

	if got := service.MonthRevenue(date(2024, time.March, 15)); got != 300 {
		t.Fatalf("expected March revenue 300, got %d", got)
	}
	if got := service.MonthRevenue(date(2024, time.February, 10)); got != 500 {
		t.Fatalf("expected February revenue 500, got %d", got)
	}
	if got := service.TotalRevenue(); got != 800 {
		t.Fatalf("expected total revenue 800, got %d", got)
	}
}

func TestMonthRevenueIgnoresFutureMonths(t *testing.T) {
	state := NewState()
	state.History = []HistoryEntry{
		{Booking: Booking{CheckIn: date(2024, time.April, 2)}, TotalPrice: 900},
		{Booking: Booking{CheckIn: date(2024, time.March, 20)}, TotalPrice: 100},
	}

	service := testQueryService(state, date(2024, time.March, 15))
	if got := service.MonthRevenue(date(2024, time.March, 15)); got != 100 {
		t.Fatalf("expected only the March check-in counted, got %d", got)
	}
}

func TestRecentHistoryCap(t *testing.T) {
	state := NewState()
	for i := 0; i < 40; i++ {
		state.History = append(state.History, HistoryEntry{
			Booking:    Booking{ID: int64(40 - i), GuestName: fmt.Sprintf("guest %d", 40-i)},
			TotalPrice: 100,
		})
	}

	service := testQueryService(state, date(2024, time.March, 10))

	recent := service.RecentHistory(0)
	if len(recent) != DefaultHistoryLimit {
		t.Fatalf("expected the default cap of %d, got %d", DefaultHistoryLimit, len(recent))
	}
	if recent[0].ID != 40 {
		t.Fatalf("expected newest entry first, got id %d", recent[0].ID)
	}
	if len(state.History) != 40 {
		t.Fatal("expected storage uncapped")
	}

	if got := service.RecentHistory(5); len(got) != 5 {
		t.Fatalf("expected explicit cap of 5, got %d", len(got))
	}
}

func TestErrorKindLabels(t *testing.T) {
	cases := map[string]error{
		"not_found":               ErrNotFound,
		"cannot_remove":           ErrCannotRemove,
		"persistence_unavailable": fmt.Errorf("%w: disk full", ErrPersistenceUnavailable),
		"unexpected":              errors.New("boom"),
	}
	for want, err := range cases {
		if got := ErrorKind(err); got != want {
			t.Fatalf("expected kind %q, got %q", want, got)
		}
	}

	vErr := &ValidationError{}
	vErr.add("field", "message")
	if got := ErrorKind(vErr); got != "validation" {
		t.Fatalf("expected kind validation, got %q", got)
	}
	if ErrorKind(nil) != "" {
		t.Fatal("expected empty kind for nil error")
	}
}
