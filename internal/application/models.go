package application

import (
	"context"
	"math"
	"time"
)

// Room is a bookable room owning an ordered list of beds. Price is the room's
// current nightly rate; it doubles as the prefill for the next booking and is
// overwritten by the most recent booking's rate.
type Room struct {
	ID     int   `json:"id"`
	Number int   `json:"number"`
	Beds   []Bed `json:"beds"`
	Price  int   `json:"price"`
}

// Bed is the smallest bookable unit. Its id is unique within the room only.
// The bed carries its own copy of the active booking, matching the persisted
// record shape; mutations write through both the bed copy and the active set.
type Bed struct {
	ID       int      `json:"id"`
	Occupied bool     `json:"occupied"`
	Booking  *Booking `json:"booking"`
}

// Booking is an active guest stay assigned to one bed. The id is the creation
// timestamp in milliseconds, issued through an injected allocator. Room number
// and bed id are denormalized for display.
type Booking struct {
	ID            int64     `json:"id"`
	RoomID        int       `json:"roomId"`
	RoomNumber    int       `json:"roomNumber"`
	BedID         int       `json:"bedId"`
	GuestName     string    `json:"guestName"`
	Phone         string    `json:"phone,omitempty"`
	PricePerNight int       `json:"pricePerNight"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
	Notes         string    `json:"notes,omitempty"`
	CheckedOut    bool      `json:"checkedOut"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HistoryEntry is the immutable record of a completed stay. Billed nights are
// computed from the planned checkout date, not the actual departure.
type HistoryEntry struct {
	Booking
	ActualCheckOut time.Time `json:"actualCheckOut"`
	TotalPrice     int       `json:"totalPrice"`
	Nights         int       `json:"nights"`
}

// Settings holds the shape parameters used for bulk regeneration and the
// default nightly price. Steady-state operation never reads RoomCount or
// BedsPerRoom.
type Settings struct {
	RoomCount    int `json:"roomCount"`
	BedsPerRoom  int `json:"bedsPerRoom"`
	DefaultPrice int `json:"defaultPrice"`
}

// DefaultSettings returns the stock first-run configuration.
func DefaultSettings() Settings {
	return Settings{RoomCount: 11, BedsPerRoom: 6, DefaultPrice: 750}
}

// State is the explicitly owned container for the four top-level records.
// Services receive it by handle; it is never reached through package globals.
// History is kept newest-first.
type State struct {
	Rooms    []Room
	Bookings []Booking
	History  []HistoryEntry
	Settings Settings
}

// NewState returns an empty state carrying default settings.
func NewState() *State {
	return &State{Settings: DefaultSettings()}
}

func (s *State) room(id int) *Room {
	for i := range s.Rooms {
		if s.Rooms[i].ID == id {
			return &s.Rooms[i]
		}
	}
	return nil
}

func (s *State) bed(room *Room, bedID int) *Bed {
	if room == nil {
		return nil
	}
	for i := range room.Beds {
		if room.Beds[i].ID == bedID {
			return &room.Beds[i]
		}
	}
	return nil
}

// activeBooking locates an active booking together with the bed it occupies.
func (s *State) activeBooking(id int64) (*Booking, *Bed) {
	for i := range s.Bookings {
		if s.Bookings[i].ID != id || s.Bookings[i].CheckedOut {
			continue
		}
		booking := &s.Bookings[i]
		room := s.room(booking.RoomID)
		bed := s.bed(room, booking.BedID)
		if bed == nil || bed.Booking == nil || bed.Booking.ID != id {
			return booking, nil
		}
		return booking, bed
	}
	return nil, nil
}

func (s *State) removeActiveBooking(id int64) {
	filtered := s.Bookings[:0]
	for _, b := range s.Bookings {
		if b.ID != id {
			filtered = append(filtered, b)
		}
	}
	s.Bookings = filtered
}

// ActiveBookingCount reports how many bookings a destructive regeneration or
// wipe would discard.
func (s *State) ActiveBookingCount() int {
	count := 0
	for _, b := range s.Bookings {
		if !b.CheckedOut {
			count++
		}
	}
	return count
}

// StateStore is the persistence port injected into the services. Every
// mutating operation saves the full snapshot; Load distinguishes a first run
// (found == false) from previously persisted data.
type StateStore interface {
	Load(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, state *State) error
	Wipe(ctx context.Context) error
}

// BookingInput carries the caller-editable fields of a booking.
type BookingInput struct {
	GuestName     string
	Phone         string
	PricePerNight int
	CheckIn       time.Time
	CheckOut      time.Time
	Notes         string
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// PlannedNights is the raw stay length in nights, rounded up. Billing clamps
// it to at least one night; guest lists and reports show it as is.
func PlannedNights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// BilledNights is the number of nights charged at checkout. The planned
// checkout date drives billing; early or late departure does not change it.
func BilledNights(checkIn, checkOut time.Time) int {
	if n := PlannedNights(checkIn, checkOut); n > 1 {
		return n
	}
	return 1
}

// Snapshot returns a deep copy of the state for read-only collaborators such
// as report generation, so a long-running render never observes a mutation.
func (s *State) Snapshot() State {
	if s == nil {
		return State{}
	}
	out := State{Settings: s.Settings}
	out.Rooms = make([]Room, len(s.Rooms))
	for i, room := range s.Rooms {
		copied := room
		copied.Beds = make([]Bed, len(room.Beds))
		for j, bed := range room.Beds {
			copiedBed := bed
			if bed.Booking != nil {
				booking := *bed.Booking
				copiedBed.Booking = &booking
			}
			copied.Beds[j] = copiedBed
		}
		out.Rooms[i] = copied
	}
	out.Bookings = append([]Booking(nil), s.Bookings...)
	out.History = append([]HistoryEntry(nil), s.History...)
	return out
}

// NewBookingIDAllocator issues creation-timestamp booking ids in milliseconds,
// bumping forward on collision so ids stay unique even within one millisecond.
func NewBookingIDAllocator(now func() time.Time) func() int64 {
	if now == nil {
		now = time.Now
	}
	var last int64
	return func() int64 {
		id := now().UnixMilli()
		if id <= last {
			id = last + 1
		}
		last = id
		return id
	}
}
