package transport

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/stocklight/go-inventory-client/authapi"
	"github.com/stocklight/go-inventory-client/session"
)

// storeTokenSource adapts the session store to oauth2.TokenSource. The token
// is re-read on every request, so a refresh that swapped the token is picked
// up immediately.
type storeTokenSource struct {
	store *session.Store
}

var noTokenErr = errors.New("no session token held")

func (s storeTokenSource) Token() (*oauth2.Token, error) {
	token := s.store.Token()
	if token == "" {
		return nil, noTokenErr
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

var _ http.RoundTripper = (*Bearer)(nil)

// Bearer attaches the current session token as a bearer credential to every
// protected request. The auth endpoints themselves are passed through
// untouched (they authenticate by credentials or ambient cookie), as are
// requests made while no token is held. A 401 on a protected request fires
// the configured unauthorized hook, which the navigation layer uses to
// redirect to login.
type Bearer struct {
	store          *session.Store
	base           http.RoundTripper
	bearer         *oauth2.Transport
	onUnauthorized func()
}

// BearerOption defines a function type to modify the Bearer instance.
type BearerOption func(*Bearer)

// WithBase replaces the underlying RoundTripper (default
// http.DefaultTransport).
func WithBase(rt http.RoundTripper) BearerOption {
	return func(b *Bearer) {
		b.base = rt
	}
}

// WithUnauthorizedHook sets the callback fired when a protected request comes
// back 401.
func WithUnauthorizedHook(hook func()) BearerOption {
	return func(b *Bearer) {
		b.onUnauthorized = hook
	}
}

// NewBearer creates the bearer-injecting RoundTripper reading tokens from the
// given session store.
func NewBearer(store *session.Store, options ...BearerOption) (*Bearer, error) {
	if store == nil {
		return nil, errors.New("[NewBearer] store is required")
	}

	b := &Bearer{
		store: store,
		base:  http.DefaultTransport,
	}

	for _, opt := range options {
		opt(b)
	}

	b.bearer = &oauth2.Transport{
		Source: storeTokenSource{store: store},
		Base:   b.base,
	}

	return b, nil
}

func (b *Bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	if authapi.IsAuthEndpoint(req.URL.Path) {
		return b.base.RoundTrip(req)
	}

	rt := b.base
	if b.store.Token() != "" {
		rt = b.bearer
	}

	resp, err := rt.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		log.Debug().Str("path", req.URL.Path).Msg("Protected request rejected with 401; session no longer valid")
		if b.onUnauthorized != nil {
			b.onUnauthorized()
		}
	}

	return resp, nil
}

// NewHTTPClient is a convenience wrapper returning an http.Client whose
// transport injects the session bearer token.
func NewHTTPClient(store *session.Store, options ...BearerOption) (*http.Client, error) {
	bearer, err := NewBearer(store, options...)
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: bearer}, nil
}
