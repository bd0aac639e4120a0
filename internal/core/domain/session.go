package domain

// SessionPhase represents the lifecycle state of the client session.
type SessionPhase string

const (
	PhaseAnonymous      SessionPhase = "anonymous"
	PhaseAuthenticating SessionPhase = "authenticating"
	PhaseAuthenticated  SessionPhase = "authenticated"
	PhaseLoggingOut     SessionPhase = "logging_out"
)

// validTransitions defines the allowed session state machine transitions.
// "About to expire" is not a phase: the warning is a side effect only.
var validTransitions = map[SessionPhase][]SessionPhase{
	PhaseAnonymous:      {PhaseAuthenticating, PhaseAuthenticated},
	PhaseAuthenticating: {PhaseAuthenticated, PhaseAnonymous},
	PhaseAuthenticated:  {PhaseAuthenticating, PhaseLoggingOut, PhaseAnonymous},
	PhaseLoggingOut:     {PhaseAnonymous},
}

// CanTransitionTo reports whether moving from the current phase to next is valid.
func (p SessionPhase) CanTransitionTo(next SessionPhase) bool {
	for _, allowed := range validTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AuthState is the single authoritative snapshot of "am I logged in, as whom".
// Exactly one value is current at a time; consumers read copies and never
// mutate. Invariant: Authenticated implies User != nil and Token != "";
// not Authenticated implies User == nil and Token == "".
type AuthState struct {
	Phase         SessionPhase
	Authenticated bool
	User          *User
	Token         string
	Loading       bool
	Err           string
}

// Anonymous returns the zero session state.
func Anonymous() AuthState {
	return AuthState{Phase: PhaseAnonymous}
}

// Valid reports whether the snapshot satisfies the authentication invariant.
func (s AuthState) Valid() bool {
	if s.Authenticated {
		return s.User != nil && s.Token != ""
	}
	return s.User == nil && s.Token == ""
}
