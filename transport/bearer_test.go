package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocklight/go-inventory-client/session"
	"github.com/stocklight/go-inventory-client/transport"
)

func newServer(t *testing.T, status int, capture *string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*capture = r.Header.Get("Authorization")
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp
}

func TestBearerAttachesToken(t *testing.T) {
	var gotAuth string
	srv := newServer(t, http.StatusOK, &gotAuth)

	store := session.NewStore()
	store.SetAuthenticated(session.Session{Token: "token-1"})

	client, err := transport.NewHTTPClient(store)
	require.NoError(t, err)

	get(t, client, srv.URL+"/products")
	require.Equal(t, "Bearer token-1", gotAuth)
}

func TestBearerSkipsAuthEndpoints(t *testing.T) {
	var gotAuth string
	srv := newServer(t, http.StatusOK, &gotAuth)

	store := session.NewStore()
	store.SetAuthenticated(session.Session{Token: "token-1"})

	client, err := transport.NewHTTPClient(store)
	require.NoError(t, err)

	get(t, client, srv.URL+"/auth/refresh")
	require.Empty(t, gotAuth, "auth endpoints authenticate by cookie, never by bearer token")
}

func TestBearerPassesThroughWithoutToken(t *testing.T) {
	var gotAuth string
	srv := newServer(t, http.StatusOK, &gotAuth)

	store := session.NewStore()

	client, err := transport.NewHTTPClient(store)
	require.NoError(t, err)

	get(t, client, srv.URL+"/products")
	require.Empty(t, gotAuth)
}

func TestBearerPicksUpReplacedToken(t *testing.T) {
	var gotAuth string
	srv := newServer(t, http.StatusOK, &gotAuth)

	store := session.NewStore()
	store.SetAuthenticated(session.Session{Token: "token-1"})

	client, err := transport.NewHTTPClient(store)
	require.NoError(t, err)

	store.ReplaceToken("token-2", "refresh-2")
	get(t, client, srv.URL+"/products")
	require.Equal(t, "Bearer token-2", gotAuth)
}

func TestUnauthorizedHookFiresOn401(t *testing.T) {
	var gotAuth string
	srv := newServer(t, http.StatusUnauthorized, &gotAuth)

	store := session.NewStore()
	store.SetAuthenticated(session.Session{Token: "token-1"})

	fired := 0
	client, err := transport.NewHTTPClient(store, transport.WithUnauthorizedHook(func() { fired++ }))
	require.NoError(t, err)

	resp := get(t, client, srv.URL+"/products")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 1, fired)
}

func TestUnauthorizedHookSilentOnAuthEndpoints(t *testing.T) {
	var gotAuth string
	srv := newServer(t, http.StatusUnauthorized, &gotAuth)

	store := session.NewStore()

	fired := 0
	client, err := transport.NewHTTPClient(store, transport.WithUnauthorizedHook(func() { fired++ }))
	require.NoError(t, err)

	get(t, client, srv.URL+"/auth/validate")
	require.Zero(t, fired, "an expected 401 from validate must not trigger the logout path")
}

func TestNewBearerRequiresStore(t *testing.T) {
	_, err := transport.NewBearer(nil)
	require.Error(t, err)
}
