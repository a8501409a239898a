package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// BookingService runs the booking lifecycle: check-in, edit, checkout, and
// cancellation. Completed stays move into history; cancelled ones vanish.
type BookingService struct {
	state         *State
	store         StateStore
	nextBookingID func() int64
	now           func() time.Time
	logger        *slog.Logger
}

// NewBookingService constructs a booking service with the provided dependencies.
func NewBookingService(state *State, store StateStore, nextBookingID func() int64, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(state, store, nextBookingID, now, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified logger.
func NewBookingServiceWithLogger(state *State, store StateStore, nextBookingID func() int64, now func() time.Time, logger *slog.Logger) *BookingService {
	if now == nil {
		now = time.Now
	}
	if nextBookingID == nil {
		nextBookingID = NewBookingIDAllocator(now)
	}
	return &BookingService{
		state:         state,
		store:         store,
		nextBookingID: nextBookingID,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBookingParams identifies the target bed and carries the guest details.
type CreateBookingParams struct {
	RoomID int
	BedID  int
	Input  BookingInput
}

// CreateBooking checks a guest into a bed. The target bed must exist and be
// free; on success the bed is marked occupied, the room's nightly price is
// overwritten with the booking's price, and the booking joins the active set.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (booking Booking, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("BookingService is not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateBooking",
		"room_id", params.RoomID,
		"bed_id", params.BedID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", booking.ID).InfoContext(ctx, "guest checked in")
	}()

	room := s.state.room(params.RoomID)
	if room == nil {
		err = ErrNotFound
		return
	}
	bed := s.state.bed(room, params.BedID)
	if bed == nil {
		err = ErrNotFound
		return
	}

	vErr := validateBookingInput(params.Input)
	if bed.Occupied || bed.Booking != nil {
		vErr.add("bed", "bed is already occupied")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	booking = Booking{
		ID:            s.nextBookingID(),
		RoomID:        room.ID,
		RoomNumber:    room.Number,
		BedID:         bed.ID,
		GuestName:     strings.TrimSpace(params.Input.GuestName),
		Phone:         strings.TrimSpace(params.Input.Phone),
		PricePerNight: params.Input.PricePerNight,
		CheckIn:       DateOf(params.Input.CheckIn),
		CheckOut:      DateOf(params.Input.CheckOut),
		Notes:         params.Input.Notes,
		CreatedAt:     s.now(),
	}

	bed.Occupied = true
	attached := booking
	bed.Booking = &attached
	// Last booking wins: the room price is not tracked per bed.
	room.Price = booking.PricePerNight
	s.state.Bookings = append(s.state.Bookings, booking)

	err = persistState(ctx, s.store, s.state)
	return
}

// EditBooking overwrites the editable fields of an active booking. Occupancy
// is untouched; the room price follows the edited nightly rate.
func (s *BookingService) EditBooking(ctx context.Context, bookingID int64, input BookingInput) (booking Booking, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("BookingService is not configured")
		return
	}

	logger := s.loggerWith(ctx, "EditBooking", "booking_id", bookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to edit booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking updated")
	}()

	active, bed := s.state.activeBooking(bookingID)
	if active == nil || bed == nil {
		err = ErrNotFound
		return
	}

	vErr := validateBookingInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	active.GuestName = strings.TrimSpace(input.GuestName)
	active.Phone = strings.TrimSpace(input.Phone)
	active.PricePerNight = input.PricePerNight
	active.CheckIn = DateOf(input.CheckIn)
	active.CheckOut = DateOf(input.CheckOut)
	active.Notes = input.Notes

	updated := *active
	bed.Booking = &updated
	if room := s.state.room(active.RoomID); room != nil {
		room.Price = active.PricePerNight
	}

	booking = *active
	err = persistState(ctx, s.store, s.state)
	return
}

// Checkout completes a stay. Billed nights come from the planned checkout
// date, clamped to at least one night; asOf only stamps the history entry.
// The operation is irreversible and a second call reports ErrNotFound.
func (s *BookingService) Checkout(ctx context.Context, bookingID int64, asOf time.Time) (entry HistoryEntry, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("BookingService is not configured")
		return
	}

	logger := s.loggerWith(ctx, "Checkout", "booking_id", bookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to check out", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("nights", entry.Nights, "total_price", entry.TotalPrice).InfoContext(ctx, "guest checked out")
	}()

	booking, bed := s.state.activeBooking(bookingID)
	if booking == nil || bed == nil {
		err = ErrNotFound
		return
	}

	nights := BilledNights(booking.CheckIn, booking.CheckOut)
	entry = HistoryEntry{
		Booking:        *booking,
		ActualCheckOut: asOf,
		TotalPrice:     nights * booking.PricePerNight,
		Nights:         nights,
	}
	entry.CheckedOut = true

	// Newest first, matching the persisted history order.
	s.state.History = append([]HistoryEntry{entry}, s.state.History...)
	s.state.removeActiveBooking(bookingID)
	bed.Occupied = false
	bed.Booking = nil

	err = persistState(ctx, s.store, s.state)
	return
}

// CancelBooking discards an active booking and frees its bed. No history entry
// and no revenue record are produced.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) (err error) {
	if s == nil || s.state == nil {
		return fmt.Errorf("BookingService is not configured")
	}

	logger := s.loggerWith(ctx, "CancelBooking", "booking_id", bookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking cancelled")
	}()

	booking, bed := s.state.activeBooking(bookingID)
	if booking == nil || bed == nil {
		err = ErrNotFound
		return
	}

	s.state.removeActiveBooking(bookingID)
	bed.Occupied = false
	bed.Booking = nil

	err = persistState(ctx, s.store, s.state)
	return
}

func validateBookingInput(input BookingInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.GuestName) == "" {
		vErr.add("guestName", "guest name is required")
	}
	if input.PricePerNight <= 0 {
		vErr.add("pricePerNight", "price must be positive")
	}
	if input.CheckIn.IsZero() {
		vErr.add("checkIn", "check-in date is required")
	}
	if input.CheckOut.IsZero() {
		vErr.add("checkOut", "check-out date is required")
	} else if !DateOf(input.CheckOut).After(DateOf(input.CheckIn)) {
		vErr.add("checkOut", "check-out must be after check-in")
	}

	return vErr
}
