package testfixtures

import (
	"github.com/example/hostel-desk/internal/application"
)

// StateWithRooms builds a state container with roomCount rooms of bedsPerRoom
// beds each, all free, priced at price per night.
func StateWithRooms(roomCount, bedsPerRoom, price int) *application.State {
	state := application.NewState()
	state.Settings.RoomCount = roomCount
	state.Settings.BedsPerRoom = bedsPerRoom
	state.Settings.DefaultPrice = price

	for i := 1; i <= roomCount; i++ {
		beds := make([]application.Bed, 0, bedsPerRoom)
		for j := 1; j <= bedsPerRoom; j++ {
			beds = append(beds, application.Bed{ID: j})
		}
		state.Rooms = append(state.Rooms, application.Room{ID: i, Number: i, Beds: beds, Price: price})
	}
	return state
}

// Services bundles the three core services over one shared state container
// with deterministic time and id sources.
type Services struct {
	State     *application.State
	Clock     *Clock
	IDs       *BookingIDs
	Inventory *application.InventoryService
	Booking   *application.BookingService
	Query     *application.QueryService
}

// NewServices wires the services over the given state. A nil store disables
// persistence; a nil state gets a default 11x6 inventory at the default price.
func NewServices(state *application.State, store application.StateStore) *Services {
	if state == nil {
		defaults := application.DefaultSettings()
		state = StateWithRooms(defaults.RoomCount, defaults.BedsPerRoom, defaults.DefaultPrice)
	}
	clock := NewClock(ReferenceTime())
	ids := NewBookingIDs(0)

	return &Services{
		State:     state,
		Clock:     clock,
		IDs:       ids,
		Inventory: application.NewInventoryService(state, store),
		Booking:   application.NewBookingService(state, store, ids.NextFunc(), clock.NowFunc()),
		Query:     application.NewQueryService(state, clock.NowFunc()),
	}
}
