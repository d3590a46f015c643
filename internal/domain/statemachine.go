package domain

import "context"

type StateMachine[P any] struct {
	initial      StateFunc[P]
	currentState StateFunc[P]
}

func NewStateMachine[P any](initial StateFunc[P]) StateMachine[P] {
	return StateMachine[P]{
		initial:      initial,
		currentState: initial,
	}
}

// Execute runs the current state and moves to the state it returns. A nil
// next state keeps the machine where it is.
func (sm *StateMachine[P]) Execute(ctx context.Context, payload P) error {
	next, err := sm.currentState(ctx, payload)
	if err != nil {
		return err
	}
	if next != nil {
		sm.currentState = next
	}
	return nil
}

func (sm *StateMachine[P]) Set(state StateFunc[P]) {
	sm.currentState = state
}

// Rewind puts the machine back into its initial state.
func (sm *StateMachine[P]) Rewind() {
	sm.currentState = sm.initial
}

// StateFunc is a function type that accepts context and request, returns next state function and error.
type StateFunc[P any] func(ctx context.Context, payload P) (StateFunc[P], error)
