package session

// State is the authentication state visible to the rest of the client.
// At application start the state is StateUnknown until the server-side
// validation call resolves; consumers must tolerate that interval rather than
// treating it as "not authenticated".
type State int

const (
	// StateUnknown means session validation is still in flight.
	StateUnknown State = iota
	// StateAuthenticated means a valid session is held.
	StateAuthenticated
	// StateUnauthenticated means there is no session. Terminal until a new
	// login restarts the cycle.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "invalid"
}
