package guard

import "github.com/stocklight/go-inventory-client/session"

// Policy is the declarative role requirement attached to a navigable view.
// The zero value (no roles) means "authentication only": a route with no
// declared policy behaves exactly the same.
type Policy struct {
	Roles      []string // Required role identifiers
	RequireAll bool     // true: every listed role; false: at least one
}

// Allows evaluates the policy against the session's roles. It is a pure
// function: ALL mode requires every listed role present, ANY mode at least
// one, and an empty role list always passes.
func (p Policy) Allows(sess session.Session) bool {
	if len(p.Roles) == 0 {
		return true
	}
	if p.RequireAll {
		return sess.HasAllRoles(p.Roles...)
	}
	return sess.HasAnyRole(p.Roles...)
}
