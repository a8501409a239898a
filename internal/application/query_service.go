package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

// Filter narrows the active-guest list by arrival or departure day.
type Filter string

const (
	// FilterAll returns every active booking.
	FilterAll Filter = "all"
	// FilterToday returns bookings whose check-in date is today.
	FilterToday Filter = "today"
	// FilterTomorrow returns bookings whose check-out date is tomorrow.
	FilterTomorrow Filter = "tomorrow"
)

// DefaultHistoryLimit caps the history list shown on the dashboard. Storage is
// never capped; reports use their own, larger limit.
const DefaultHistoryLimit = 30

// OccupancyStats aggregates bed occupancy across all rooms.
type OccupancyStats struct {
	TotalBeds     int
	OccupiedBeds  int
	FreeBeds      int
	OccupancyRate int
}

// RoomOccupancy is one row of the per-room occupancy breakdown.
type RoomOccupancy struct {
	RoomNumber int
	TotalBeds  int
	Occupied   int
	Free       int
	Percent    int
}

// QueryService serves derived read-only views over the shared state: guest
// lists, occupancy aggregates, and revenue figures. It never mutates state and
// never touches storage.
type QueryService struct {
	state  *State
	now    func() time.Time
	logger *slog.Logger
}

// NewQueryService constructs a query service over the shared state container.
func NewQueryService(state *State, now func() time.Time) *QueryService {
	return NewQueryServiceWithLogger(state, now, nil)
}

// NewQueryServiceWithLogger constructs a query service with a specified logger.
func NewQueryServiceWithLogger(state *State, now func() time.Time, logger *slog.Logger) *QueryService {
	if now == nil {
		now = time.Now
	}
	return &QueryService{state: state, now: now, logger: defaultLogger(logger)}
}

func (s *QueryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "QueryService", operation, attrs...)
}

// ActiveBookings returns the active (non-checked-out) bookings matching the
// filter, sorted ascending by check-out date. Ties keep encounter order.
func (s *QueryService) ActiveBookings(ctx context.Context, filter Filter) ([]Booking, error) {
	if s == nil || s.state == nil {
		return nil, fmt.Errorf("QueryService is not configured")
	}

	switch filter {
	case FilterAll, FilterToday, FilterTomorrow:
	case "":
		filter = FilterAll
	default:
		vErr := &ValidationError{}
		vErr.add("filter", fmt.Sprintf("unknown filter %q", filter))
		return nil, vErr
	}

	logger := s.loggerWith(ctx, "ActiveBookings", "filter", string(filter))

	today := DateOf(s.now())
	tomorrow := today.AddDate(0, 0, 1)

	bookings := make([]Booking, 0, len(s.state.Bookings))
	for _, b := range s.state.Bookings {
		if b.CheckedOut {
			continue
		}
		switch filter {
		case FilterToday:
			if !SameDay(b.CheckIn, today) {
				continue
			}
		case FilterTomorrow:
			if !SameDay(b.CheckOut, tomorrow) {
				continue
			}
		}
		bookings = append(bookings, b)
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CheckOut.Before(bookings[j].CheckOut)
	})

	logger.With("result_count", len(bookings)).DebugContext(ctx, "active bookings listed")
	return bookings, nil
}

// Occupancy aggregates bed counts across all rooms. The rate is a rounded
// percentage and zero when there are no beds at all.
func (s *QueryService) Occupancy() OccupancyStats {
	if s == nil || s.state == nil {
		return OccupancyStats{}
	}

	stats := OccupancyStats{}
	for _, room := range s.state.Rooms {
		stats.TotalBeds += len(room.Beds)
		for _, bed := range room.Beds {
			if bed.Occupied {
				stats.OccupiedBeds++
			}
		}
	}
	stats.FreeBeds = stats.TotalBeds - stats.OccupiedBeds
	if stats.TotalBeds > 0 {
		stats.OccupancyRate = int(math.Round(float64(stats.OccupiedBeds) / float64(stats.TotalBeds) * 100))
	}
	return stats
}

// RoomOccupancies returns the per-room occupancy breakdown in room order.
func (s *QueryService) RoomOccupancies() []RoomOccupancy {
	if s == nil || s.state == nil {
		return nil
	}

	rows := make([]RoomOccupancy, 0, len(s.state.Rooms))
	for _, room := range s.state.Rooms {
		row := RoomOccupancy{RoomNumber: room.Number, TotalBeds: len(room.Beds)}
		for _, bed := range room.Beds {
			if bed.Occupied {
				row.Occupied++
			}
		}
		row.Free = row.TotalBeds - row.Occupied
		if row.TotalBeds > 0 {
			row.Percent = int(math.Round(float64(row.Occupied) / float64(row.TotalBeds) * 100))
		}
		rows = append(rows, row)
	}
	return rows
}

// MonthRevenue sums completed-stay revenue attributed to asOf's calendar
// month. Attribution follows the original check-in date: a guest who checks in
// during month M and leaves in M+1 counts entirely toward M.
func (s *QueryService) MonthRevenue(asOf time.Time) int {
	if s == nil || s.state == nil {
		return 0
	}

	year, month, _ := asOf.Date()
	total := 0
	for _, entry := range s.state.History {
		entryYear, entryMonth, _ := entry.CheckIn.Date()
		if entryYear == year && entryMonth == month {
			total += entry.TotalPrice
		}
	}
	return total
}

// TotalRevenue sums revenue over the entire history.
func (s *QueryService) TotalRevenue() int {
	if s == nil || s.state == nil {
		return 0
	}
	total := 0
	for _, entry := range s.state.History {
		total += entry.TotalPrice
	}
	return total
}

// RecentHistory returns the newest completed stays up to limit. A non-positive
// limit falls back to DefaultHistoryLimit.
func (s *QueryService) RecentHistory(limit int) []HistoryEntry {
	if s == nil || s.state == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > len(s.state.History) {
		limit = len(s.state.History)
	}
	out := make([]HistoryEntry, limit)
	copy(out, s.state.History[:limit])
	return out
}
