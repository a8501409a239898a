package persistence

import "context"

// Record keys for the four independently addressable state records. The names
// are carried over from the legacy storage layout so existing data files and
// backups remain addressable.
const (
	KeyRooms    = "hostel_rooms"
	KeyBookings = "hostel_bookings"
	KeyHistory  = "hostel_history"
	KeySettings = "hostel_settings"
)

// RecordStore is the key/value port the state container persists through.
// Values are opaque to the store; serialization is the caller's concern.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
