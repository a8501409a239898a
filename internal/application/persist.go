package application

import (
	"context"
	"fmt"
)

// persistState writes the full snapshot through the store after a mutation.
// A nil store means the caller opted out of durability (tests, previews).
// On failure the in-memory mutation is kept and the error is folded into
// ErrPersistenceUnavailable so callers can warn and continue non-durably.
func persistState(ctx context.Context, store StateStore, state *State) error {
	if store == nil {
		return nil
	}
	if err := store.Save(ctx, state); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}
