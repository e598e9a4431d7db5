package session

import (
	"context"
	"sync"
)

// Store is the single holder of session state. Only the auth Manager writes
// to it; every other collaborator reads immutable snapshots. Each mutation
// replaces the state atomically, so no two operations can apply conflicting
// outcomes out of order.
//
// Change notification is subscription-based: every transition closes the
// current watch channel, so consumers such as the route authorizer can await
// resolution instead of polling on a fixed interval.
type Store struct {
	mu      sync.RWMutex
	state   State
	current Session
	watch   chan struct{}
}

// NewStore creates a Store in StateUnknown, the state the client starts in
// until ValidateExistingSession resolves.
func NewStore() *Store {
	return &Store{
		state: StateUnknown,
		watch: make(chan struct{}),
	}
}

// State returns the current authentication state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns a snapshot of the current session. The snapshot is a copy;
// mutating it has no effect on the store.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Snapshot returns the current session and state in a single consistent read.
func (s *Store) Snapshot() (Session, State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), s.state
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Changed returns a channel that is closed on the next state transition.
func (s *Store) Changed() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watch
}

// Await blocks until the state leaves StateUnknown or ctx is done. When ctx
// expires while the state is still unresolved, StateUnknown is returned and
// the caller is expected to fail closed.
func (s *Store) Await(ctx context.Context) State {
	for {
		s.mu.RLock()
		state := s.state
		watch := s.watch
		s.mu.RUnlock()

		if state != StateUnknown {
			return state
		}

		select {
		case <-watch:
		case <-ctx.Done():
			return StateUnknown
		}
	}
}

// SetAuthenticated installs a new session and transitions to
// StateAuthenticated.
func (s *Store) SetAuthenticated(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
	s.current.Roles = append([]string(nil), sess.Roles...)
	s.state = StateAuthenticated
	s.notifyLocked()
}

// ReplaceToken swaps the bearer and refresh credentials without touching
// username or roles. It is a no-op unless the store is authenticated.
func (s *Store) ReplaceToken(token, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return
	}
	s.current.Token = token
	s.current.RefreshToken = refreshToken
	s.notifyLocked()
}

// Clear wipes the session and transitions to StateUnauthenticated. Calling it
// repeatedly is harmless.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{}
	s.state = StateUnauthenticated
	s.notifyLocked()
}

func (s *Store) snapshotLocked() Session {
	sess := s.current
	sess.Roles = append([]string(nil), s.current.Roles...)
	return sess
}

func (s *Store) notifyLocked() {
	close(s.watch)
	s.watch = make(chan struct{})
}
