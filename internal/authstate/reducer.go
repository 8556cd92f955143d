// Package authstate holds the client session authentication state and the
// pure transition function that advances it. State values are immutable:
// every transition returns a new value derived from the previous state and
// the action, never a partial mutation.
package authstate

// ActionSetCurrentUser replaces the session's current user wholesale.
const ActionSetCurrentUser = "SET_CURRENT_USER"

// State is the client-side authentication state.
type State struct {
	IsAuthenticated bool           `json:"isAuthenticated"`
	User            map[string]any `json:"user"`
}

// Action describes a state transition request.
type Action struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Initial returns the state a session starts from.
func Initial() State {
	return State{IsAuthenticated: false, User: map[string]any{}}
}

// Reduce computes the next state from the current state and an action.
// Unknown action types are identity transitions.
func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionSetCurrentUser:
		return State{
			IsAuthenticated: truthy(action.Payload),
			User:            action.Payload,
		}
	default:
		return state
	}
}

// truthy: absent or empty payloads are false, any populated mapping is true.
func truthy(payload map[string]any) bool {
	return len(payload) > 0
}
