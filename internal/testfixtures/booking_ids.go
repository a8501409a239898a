package testfixtures

import "sync"

// BookingIDs produces deterministic booking identifiers for tests, replacing
// the timestamp-based allocator with a simple counter over a fixed base.
type BookingIDs struct {
	mu   sync.Mutex
	base int64
	next int64
}

// NewBookingIDs constructs an allocator starting at base. When base is zero,
// the ReferenceTime's millisecond timestamp is used.
func NewBookingIDs(base int64) *BookingIDs {
	if base == 0 {
		base = ReferenceTime().UnixMilli()
	}
	return &BookingIDs{base: base}
}

// Next returns the next identifier in the sequence.
func (g *BookingIDs) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.base + g.next
	g.next++
	return id
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (g *BookingIDs) NextFunc() func() int64 {
	if g == nil {
		return func() int64 { return 0 }
	}
	return g.Next
}

// Reset rewinds the sequence so the next identifier is base again.
func (g *BookingIDs) Reset() {
	g.mu.Lock()
	g.next = 0
	g.mu.Unlock()
}
