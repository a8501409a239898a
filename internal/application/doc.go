// Package application holds the bed-management core: the state container and
// the three services operating over it.
//
//   - InventoryService initializes the room layout (reference layout on first
//     run, settings-driven uniform regeneration thereafter), adds and removes
//     beds under the occupancy constraints, applies settings changes, and
//     performs the confirmed destructive wipe.
//   - BookingService runs the booking lifecycle: check-in against a free bed,
//     in-place edits of active bookings, checkout into the immutable history,
//     and cancellation without a revenue record.
//   - QueryService serves derived read-only views: filtered guest lists,
//     occupancy aggregates, calendar-month revenue, and the capped recent
//     history.
//
// All three services share one State handle; the environment is single
// threaded, so operations run to completion without locking. Durability is an
// injected StateStore port: every mutation writes the full four-record
// snapshot, and a write failure keeps the in-memory state authoritative while
// surfacing ErrPersistenceUnavailable.
package application
