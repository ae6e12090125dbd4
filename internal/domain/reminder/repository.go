package reminder

import "context"

// StateRepository persists the single reminder State.
type StateRepository interface {
	// Get returns the zero State when nothing was stored yet.
	Get(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}
