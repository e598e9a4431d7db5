package guard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stocklight/go-inventory-client/guard"
	"github.com/stocklight/go-inventory-client/session"
)

func storeWith(roles ...string) *session.Store {
	store := session.NewStore()
	store.SetAuthenticated(session.Session{
		Token:    "token-1",
		Username: "john.doe",
		Roles:    roles,
	})
	return store
}

func TestPolicyAllows(t *testing.T) {
	tests := []struct {
		name    string
		policy  guard.Policy
		roles   []string
		allowed bool
	}{
		{
			name:    "empty policy admits any authenticated session",
			policy:  guard.Policy{},
			roles:   nil,
			allowed: true,
		},
		{
			name:    "any-of admits on a single overlap",
			policy:  guard.Policy{Roles: []string{session.RoleAdmin, session.RoleEmployee}},
			roles:   []string{session.RoleEmployee},
			allowed: true,
		},
		{
			name:    "any-of rejects a disjoint role set",
			policy:  guard.Policy{Roles: []string{session.RoleAdmin}},
			roles:   []string{session.RoleEmployee},
			allowed: false,
		},
		{
			name:    "all-of requires the full set",
			policy:  guard.Policy{Roles: []string{session.RoleAdmin, session.RoleEmployee}, RequireAll: true},
			roles:   []string{session.RoleAdmin},
			allowed: false,
		},
		{
			name:    "all-of admits a superset",
			policy:  guard.Policy{Roles: []string{session.RoleAdmin}, RequireAll: true},
			roles:   []string{session.RoleAdmin, session.RoleEmployee},
			allowed: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sess := session.Session{Roles: tc.roles}
			require.Equal(t, tc.allowed, tc.policy.Allows(sess))
		})
	}
}

func TestAuthorizeAllowsAuthenticated(t *testing.T) {
	authorizer, err := guard.NewAuthorizer(storeWith(session.RoleEmployee))
	require.NoError(t, err)

	decision := authorizer.Authorize(context.Background(), guard.Policy{})
	require.True(t, decision.Allowed)
	require.Empty(t, decision.RedirectTo)
}

func TestAuthorizeRedirectsUnauthenticatedToLogin(t *testing.T) {
	store := session.NewStore()
	store.Clear()

	authorizer, err := guard.NewAuthorizer(store)
	require.NoError(t, err)

	decision := authorizer.Authorize(context.Background(), guard.Policy{})
	require.False(t, decision.Allowed)
	require.Equal(t, guard.DefaultLoginRoute, decision.RedirectTo)
}

func TestAuthorizeRedirectsUnderprivilegedToLanding(t *testing.T) {
	authorizer, err := guard.NewAuthorizer(storeWith(session.RoleEmployee))
	require.NoError(t, err)

	decision := authorizer.Authorize(context.Background(), guard.Policy{
		Roles:      []string{session.RoleAdmin},
		RequireAll: true,
	})
	require.False(t, decision.Allowed)
	require.Equal(t, guard.DefaultLandingRoute, decision.RedirectTo)
}

func TestAuthorizeWaitsForStartupValidation(t *testing.T) {
	store := session.NewStore()

	// Simulate the startup validation settling shortly after the navigation
	// arrives. An employee session resolves while the route wants admin, so
	// the denial must land on the landing route, not the login route.
	go func() {
		time.Sleep(50 * time.Millisecond)
		store.SetAuthenticated(session.Session{
			Token:    "token-1",
			Username: "john.doe",
			Roles:    []string{session.RoleEmployee},
		})
	}()

	authorizer, err := guard.NewAuthorizer(store)
	require.NoError(t, err)

	decision := authorizer.Authorize(context.Background(), guard.Policy{
		Roles:      []string{session.RoleAdmin},
		RequireAll: true,
	})
	require.False(t, decision.Allowed)
	require.Equal(t, guard.DefaultLandingRoute, decision.RedirectTo)
}

func TestAuthorizeFailsClosedWhenValidationNeverSettles(t *testing.T) {
	store := session.NewStore()

	authorizer, err := guard.NewAuthorizer(store, guard.WithWaitTimeout(30*time.Millisecond))
	require.NoError(t, err)

	decision := authorizer.Authorize(context.Background(), guard.Policy{})
	require.False(t, decision.Allowed)
	require.Equal(t, guard.DefaultLoginRoute, decision.RedirectTo)
}

func TestAuthorizeCustomRoutes(t *testing.T) {
	store := session.NewStore()
	store.Clear()

	authorizer, err := guard.NewAuthorizer(store, guard.WithRoutes("/signin", "/home"))
	require.NoError(t, err)

	decision := authorizer.Authorize(context.Background(), guard.Policy{})
	require.Equal(t, "/signin", decision.RedirectTo)
}

func TestNewAuthorizerRequiresStore(t *testing.T) {
	_, err := guard.NewAuthorizer(nil)
	require.Error(t, err)
}
