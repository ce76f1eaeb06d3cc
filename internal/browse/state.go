// Package browse drives the country list screen: initial fetch, infinite
// scroll, client-side filtering and detail selection.
package browse

// State is the list screen's loading state.
type State string

const (
	// StateAuthLoading means the session has not been restored yet.
	StateAuthLoading State = "authLoading"
	// StateLoading means the first page is being fetched.
	StateLoading State = "loading"
	// StateLoaded means the list is shown and idle.
	StateLoaded State = "loaded"
	// StateLoadingMore means a next page is being fetched.
	StateLoadingMore State = "loadingMore"
	// StateError means the last fetch failed.
	StateError State = "error"
)

// IsValid returns true if the state is a known valid state.
func (s State) IsValid() bool {
	switch s {
	case StateAuthLoading, StateLoading, StateLoaded, StateLoadingMore, StateError:
		return true
	default:
		return false
	}
}

// IsBusy reports whether a list fetch is in flight.
func (s State) IsBusy() bool {
	return s == StateLoading || s == StateLoadingMore
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// ValidTransitions maps each state to its valid next states.
// Loading and loadingMore may overlap, so each can follow the other.
var ValidTransitions = map[State][]State{
	StateAuthLoading: {StateLoading},
	StateLoading:     {StateLoaded, StateError, StateLoadingMore, StateLoading},
	StateLoaded:      {StateLoading, StateLoadingMore, StateError},
	StateLoadingMore: {StateLoaded, StateError, StateLoading},
	StateError:       {StateLoading, StateLoadingMore},
}

// CanTransitionTo returns true if the transition from s to next is valid.
func (s State) CanTransitionTo(next State) bool {
	for _, v := range ValidTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}
