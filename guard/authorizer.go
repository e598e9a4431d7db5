package guard

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/stocklight/go-inventory-client/session"
)

const (
	// DefaultLoginRoute is where unauthenticated navigations are sent.
	DefaultLoginRoute = "/login"
	// DefaultLandingRoute is where authenticated but under-privileged
	// navigations are sent.
	DefaultLandingRoute = "/products"

	// defaultWaitTimeout bounds how long a navigation waits for the startup
	// session validation to resolve before failing closed.
	defaultWaitTimeout = 3 * time.Second
)

// Decision is the outcome of an authorization check. A denial is a normal
// redirect outcome, never an error: RedirectTo names the route the
// navigation layer should move to instead.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Authorizer gates navigation to protected views. It reads session state but
// never mutates it; when the state is still unresolved at startup it awaits
// the store's change notification up to a bounded timeout.
type Authorizer struct {
	store        *session.Store
	loginRoute   string
	landingRoute string
	waitTimeout  time.Duration
}

// AuthorizerOption defines a function type to modify the Authorizer instance.
type AuthorizerOption func(*Authorizer)

// WithWaitTimeout overrides how long Authorize waits for an unresolved
// session state.
func WithWaitTimeout(d time.Duration) AuthorizerOption {
	return func(a *Authorizer) {
		a.waitTimeout = d
	}
}

// WithRoutes overrides the login and landing redirect targets.
func WithRoutes(loginRoute, landingRoute string) AuthorizerOption {
	return func(a *Authorizer) {
		a.loginRoute = loginRoute
		a.landingRoute = landingRoute
	}
}

// NewAuthorizer creates an Authorizer reading from the given session store.
func NewAuthorizer(store *session.Store, options ...AuthorizerOption) (*Authorizer, error) {
	if store == nil {
		return nil, errors.New("[NewAuthorizer] store is required")
	}

	a := &Authorizer{
		store:        store,
		loginRoute:   DefaultLoginRoute,
		landingRoute: DefaultLandingRoute,
		waitTimeout:  defaultWaitTimeout,
	}

	for _, opt := range options {
		opt(a)
	}

	return a, nil
}

// Authorize decides whether the requested view may be entered under the given
// policy.
//
// Authenticated state evaluates immediately. Unknown state (startup
// validation still in flight) waits for the store to resolve, bounded by the
// configured timeout; a timeout is treated as unauthenticated. Unauthenticated
// navigations redirect to the login route; authenticated but under-privileged
// ones redirect to the landing route, because the user is valid, just not
// allowed here.
func (a *Authorizer) Authorize(ctx context.Context, policy Policy) Decision {
	state := a.store.State()

	if state == session.StateUnknown {
		waitCtx, cancel := context.WithTimeout(ctx, a.waitTimeout)
		defer cancel()
		state = a.store.Await(waitCtx)
	}

	if state != session.StateAuthenticated {
		// Unknown past the deadline fails closed.
		return Decision{Allowed: false, RedirectTo: a.loginRoute}
	}

	if !policy.Allows(a.store.Current()) {
		return Decision{Allowed: false, RedirectTo: a.landingRoute}
	}

	return Decision{Allowed: true}
}
