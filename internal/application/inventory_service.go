package application

import (
	"context"
	"fmt"
	"log/slog"
)

// defaultBedLayout is the per-room bed count of the reference 11-room layout
// applied on a true first run: 1:6, 2:6, 3:6, 4:4, 5:8, 6:10, 7:6, 8:10, 9:8,
// 10:8, 11:4.
var defaultBedLayout = []int{6, 6, 6, 4, 8, 10, 6, 10, 8, 8, 4}

// InventoryService owns the room/bed inventory: initialization, bed
// add/remove, settings, and the destructive regeneration and wipe paths.
type InventoryService struct {
	state  *State
	store  StateStore
	logger *slog.Logger
}

// NewInventoryService constructs an inventory service over the shared state container.
func NewInventoryService(state *State, store StateStore) *InventoryService {
	return NewInventoryServiceWithLogger(state, store, nil)
}

// NewInventoryServiceWithLogger constructs an inventory service with a specified logger.
func NewInventoryServiceWithLogger(state *State, store StateStore, logger *slog.Logger) *InventoryService {
	return &InventoryService{state: state, store: store, logger: defaultLogger(logger)}
}

func (s *InventoryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "InventoryService", operation, attrs...)
}

// Bootstrap loads persisted state or initializes it on a first run. A missing
// rooms record means a true first run and gets the reference layout; a present
// but empty rooms list is regenerated uniformly from the stored settings.
func (s *InventoryService) Bootstrap(ctx context.Context) error {
	if s == nil || s.state == nil {
		return fmt.Errorf("InventoryService is not configured")
	}

	logger := s.loggerWith(ctx, "Bootstrap")

	if s.store == nil {
		s.applyDefaultLayout()
		logger.InfoContext(ctx, "initialized default layout without storage")
		return nil
	}

	loaded, found, err := s.store.Load(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
		logger.ErrorContext(ctx, "failed to load state", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if !found {
		s.applyDefaultLayout()
		logger.With("room_count", len(s.state.Rooms)).InfoContext(ctx, "first run, default layout created")
		return persistState(ctx, s.store, s.state)
	}

	*s.state = loaded
	normalizeSettings(&s.state.Settings)

	if len(s.state.Rooms) == 0 {
		s.applyUniformLayout(s.state.Settings.RoomCount, s.state.Settings.BedsPerRoom, s.state.Settings.DefaultPrice)
		logger.With("room_count", len(s.state.Rooms)).InfoContext(ctx, "empty inventory regenerated from settings")
		return persistState(ctx, s.store, s.state)
	}

	logger.With("room_count", len(s.state.Rooms), "active_bookings", s.state.ActiveBookingCount()).
		InfoContext(ctx, "state loaded")
	return nil
}

// normalizeSettings repairs settings persisted by older deployments: a zero
// price and the retired 1500 default both become the current default.
func normalizeSettings(settings *Settings) {
	if settings.DefaultPrice == 0 || settings.DefaultPrice == 1500 {
		settings.DefaultPrice = DefaultSettings().DefaultPrice
	}
	if settings.RoomCount <= 0 {
		settings.RoomCount = DefaultSettings().RoomCount
	}
	if settings.BedsPerRoom <= 0 {
		settings.BedsPerRoom = DefaultSettings().BedsPerRoom
	}
}

func (s *InventoryService) applyDefaultLayout() {
	rooms := make([]Room, 0, len(defaultBedLayout))
	for i, bedCount := range defaultBedLayout {
		rooms = append(rooms, newRoom(i+1, bedCount, s.state.Settings.DefaultPrice))
	}
	s.state.Rooms = rooms
	s.state.Settings.RoomCount = len(rooms)
}

func (s *InventoryService) applyUniformLayout(roomCount, bedsPerRoom, price int) {
	rooms := make([]Room, 0, roomCount)
	for i := 1; i <= roomCount; i++ {
		rooms = append(rooms, newRoom(i, bedsPerRoom, price))
	}
	s.state.Rooms = rooms
	s.state.Bookings = nil
}

func newRoom(id, bedCount, price int) Room {
	beds := make([]Bed, 0, bedCount)
	for j := 1; j <= bedCount; j++ {
		beds = append(beds, Bed{ID: j})
	}
	return Room{ID: id, Number: id, Beds: beds, Price: price}
}

// RegenerationPreview reports how many active bookings a regeneration or wipe
// would discard, so the confirmation shown to the user can be informed.
func (s *InventoryService) RegenerationPreview() int {
	if s == nil || s.state == nil {
		return 0
	}
	return s.state.ActiveBookingCount()
}

// UniformLayoutParams describes a settings-driven regeneration request.
// AcknowledgedDiscards must equal the current RegenerationPreview count; a
// stale acknowledgement fails validation so the destructive path cannot be
// taken on outdated information.
type UniformLayoutParams struct {
	RoomCount            int
	BedsPerRoom          int
	Price                int
	AcknowledgedDiscards int
}

// InitializeUniform regenerates every room from scratch with identical bed
// counts, discarding all active bookings. Checkout history is untouched.
func (s *InventoryService) InitializeUniform(ctx context.Context, params UniformLayoutParams) (err error) {
	if s == nil || s.state == nil {
		return fmt.Errorf("InventoryService is not configured")
	}

	logger := s.loggerWith(ctx, "InitializeUniform",
		"room_count", params.RoomCount,
		"beds_per_room", params.BedsPerRoom,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to regenerate inventory", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "inventory regenerated")
	}()

	vErr := &ValidationError{}
	if params.RoomCount <= 0 {
		vErr.add("roomCount", "room count must be positive")
	}
	if params.BedsPerRoom <= 0 {
		vErr.add("bedsPerRoom", "beds per room must be positive")
	}
	if params.Price <= 0 {
		vErr.add("price", "price must be positive")
	}
	if discards := s.state.ActiveBookingCount(); params.AcknowledgedDiscards != discards {
		vErr.add("acknowledgedDiscards", fmt.Sprintf("regeneration discards %d active bookings and must be acknowledged", discards))
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	s.state.Settings.RoomCount = params.RoomCount
	s.state.Settings.BedsPerRoom = params.BedsPerRoom
	s.state.Settings.DefaultPrice = params.Price
	s.applyUniformLayout(params.RoomCount, params.BedsPerRoom, params.Price)

	err = persistState(ctx, s.store, s.state)
	return
}

// AddBed appends one unoccupied bed to the room, using the next sequential id.
func (s *InventoryService) AddBed(ctx context.Context, roomID int) (bed Bed, err error) {
	if s == nil || s.state == nil {
		err = fmt.Errorf("InventoryService is not configured")
		return
	}

	logger := s.loggerWith(ctx, "AddBed", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add bed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("bed_id", bed.ID).InfoContext(ctx, "bed added")
	}()

	room := s.state.room(roomID)
	if room == nil {
		err = ErrNotFound
		return
	}

	nextID := 1
	for _, b := range room.Beds {
		if b.ID >= nextID {
			nextID = b.ID + 1
		}
	}
	room.Beds = append(room.Beds, Bed{ID: nextID})
	bed = room.Beds[len(room.Beds)-1]

	err = persistState(ctx, s.store, s.state)
	return
}

// RemoveBed removes the room's last bed. Only the last bed is ever removed so
// bed ids never develop gaps under attached bookings. The removal fails when
// the room would be left bedless or the last bed is occupied.
func (s *InventoryService) RemoveBed(ctx context.Context, roomID int) (err error) {
	if s == nil || s.state == nil {
		return fmt.Errorf("InventoryService is not configured")
	}

	logger := s.loggerWith(ctx, "RemoveBed", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to remove bed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "bed removed")
	}()

	room := s.state.room(roomID)
	if room == nil {
		err = ErrNotFound
		return
	}
	if len(room.Beds) <= 1 {
		err = ErrCannotRemove
		return
	}
	if room.Beds[len(room.Beds)-1].Occupied {
		err = ErrCannotRemove
		return
	}

	room.Beds = room.Beds[:len(room.Beds)-1]

	err = persistState(ctx, s.store, s.state)
	return
}

// SettingsParams carries a settings update. A change to the inventory shape
// triggers a confirmed uniform regeneration; a price-only change applies the
// new default price to every room and leaves bookings alone.
type SettingsParams struct {
	RoomCount            int
	BedsPerRoom          int
	DefaultPrice         int
	AcknowledgedDiscards int
}

// UpdateSettings applies a settings change.
func (s *InventoryService) UpdateSettings(ctx context.Context, params SettingsParams) (err error) {
	if s == nil || s.state == nil {
		return fmt.Errorf("InventoryService is not configured")
	}

	logger := s.loggerWith(ctx, "UpdateSettings")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update settings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "settings updated")
	}()

	shapeChanged := params.RoomCount != s.state.Settings.RoomCount ||
		params.BedsPerRoom != s.state.Settings.BedsPerRoom

	if shapeChanged {
		err = s.InitializeUniform(ctx, UniformLayoutParams{
			RoomCount:            params.RoomCount,
			BedsPerRoom:          params.BedsPerRoom,
			Price:                params.DefaultPrice,
			AcknowledgedDiscards: params.AcknowledgedDiscards,
		})
		return
	}

	vErr := &ValidationError{}
	if params.DefaultPrice <= 0 {
		vErr.add("defaultPrice", "price must be positive")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	s.state.Settings.DefaultPrice = params.DefaultPrice
	for i := range s.state.Rooms {
		s.state.Rooms[i].Price = params.DefaultPrice
	}

	err = persistState(ctx, s.store, s.state)
	return
}

// WipeAll deletes every record: rooms, bookings, history, and settings. The
// caller must acknowledge the current RegenerationPreview count; there is no
// recovery short of re-importing a backup.
func (s *InventoryService) WipeAll(ctx context.Context, acknowledgedDiscards int) (err error) {
	if s == nil || s.state == nil {
		return fmt.Errorf("InventoryService is not configured")
	}

	logger := s.loggerWith(ctx, "WipeAll")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to wipe data", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "all data wiped")
	}()

	if discards := s.state.ActiveBookingCount(); acknowledgedDiscards != discards {
		vErr := &ValidationError{}
		vErr.add("acknowledgedDiscards", fmt.Sprintf("wipe discards %d active bookings and must be acknowledged", discards))
		err = vErr
		return
	}

	*s.state = *NewState()

	if s.store != nil {
		if wipeErr := s.store.Wipe(ctx); wipeErr != nil {
			err = fmt.Errorf("%w: %v", ErrPersistenceUnavailable, wipeErr)
			return
		}
	}
	return
}
