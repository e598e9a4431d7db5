package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/stocklight/go-inventory-client/auth"
	"github.com/stocklight/go-inventory-client/internal/utils"
)

// Auth endpoint paths on the Stocklight backend.
const (
	LoginPath       = "/auth/login"
	RegisterPath    = "/auth/register"
	ValidatePath    = "/auth/validate"
	RefreshPath     = "/auth/refresh"
	LogoutPath      = "/auth/logout"
	ForceDevicePath = "/auth/force-device"

	// DeviceIDHeader carries the client device identifier on login.
	DeviceIDHeader = "X-Device-Id"

	defaultTimeout = 15 * time.Second
)

// IsAuthEndpoint reports whether the given URL path is one of the auth
// endpoints. The bearer interception layer must leave these requests alone:
// they authenticate by credentials or by ambient cookie, never by bearer
// token.
func IsAuthEndpoint(path string) bool {
	for _, p := range []string{LoginPath, RegisterPath, ValidatePath, RefreshPath, LogoutPath, ForceDevicePath} {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

var _ auth.API = (*Client)(nil)

// Client is the HTTP implementation of auth.API. It keeps a cookie jar so the
// server-held session marker (an HTTP-only cookie, opaque to this client)
// rides along on validate, refresh and logout.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The caller is
// responsible for attaching a cookie jar if the replacement needs one.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates an auth API client for the backend at baseURL.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "[NewClient] cookiejar.New")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// apiEnvelope is the backend's uniform response wrapper.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type loginRequest struct {
	Document string `json:"document"`
	Password string `json:"password"`
}

type loginData struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	Username     string   `json:"username"`
	Roles        []string `json:"roles"`
}

type validateData struct {
	Token    string  `json:"token"`
	DeviceID *string `json:"deviceId,omitempty"`
}

type refreshData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type forceDeviceRequest struct {
	DeviceID string `json:"deviceId"`
}

// Login posts the credentials with the device identifier header. Bad
// credentials surface as AuthRejectedErr carrying the server's message.
func (c *Client) Login(ctx context.Context, creds auth.Credentials, deviceID string) (*auth.LoginResult, error) {
	body := loginRequest{Document: creds.Document, Password: creds.Password}

	resp, err := c.send(ctx, http.MethodPost, LoginPath, body, map[string]string{DeviceIDHeader: deviceID})
	if err != nil {
		return nil, errors.Wrap(auth.NetworkFailureErr, "[Client.Login] "+err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	envelope, decodeErr := decodeEnvelope(resp)

	switch {
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return nil, errors.Wrap(auth.AuthRejectedErr, "[Client.Login] "+rejectionMessage(envelope))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.Wrapf(auth.NetworkFailureErr, "[Client.Login] unexpected status %d", resp.StatusCode)
	}

	if decodeErr != nil {
		return nil, errors.Wrap(decodeErr, "[Client.Login] decoding response")
	}
	if !envelope.Success {
		return nil, errors.Wrap(auth.AuthRejectedErr, "[Client.Login] "+rejectionMessage(envelope))
	}

	var data loginData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] decoding login data")
	}

	return &auth.LoginResult{
		Token:        data.Token,
		RefreshToken: data.RefreshToken,
		Username:     data.Username,
		Roles:        data.Roles,
	}, nil
}

// Validate asks the server to validate the cookie-held session marker.
func (c *Client) Validate(ctx context.Context) (*auth.ValidateResult, error) {
	resp, err := c.send(ctx, http.MethodGet, ValidatePath, nil, nil)
	if err != nil {
		return nil, errors.Wrap(auth.NetworkFailureErr, "[Client.Validate] "+err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrapf(auth.SessionExpiredErr, "[Client.Validate] status %d", resp.StatusCode)
	}

	envelope, err := decodeEnvelope(resp)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Validate] decoding response")
	}
	if !envelope.Success {
		return nil, errors.Wrap(auth.SessionExpiredErr, "[Client.Validate] "+rejectionMessage(envelope))
	}

	var data validateData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, errors.Wrap(err, "[Client.Validate] decoding validate data")
	}

	return &auth.ValidateResult{
		Token:    data.Token,
		DeviceID: utils.Value(data.DeviceID),
	}, nil
}

// Refresh requests a replacement token pair using the ambient credentials.
func (c *Client) Refresh(ctx context.Context) (*auth.RefreshResult, error) {
	resp, err := c.send(ctx, http.MethodPost, RefreshPath, nil, nil)
	if err != nil {
		return nil, errors.Wrap(auth.NetworkFailureErr, "[Client.Refresh] "+err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrapf(auth.SessionExpiredErr, "[Client.Refresh] status %d", resp.StatusCode)
	}

	envelope, err := decodeEnvelope(resp)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Refresh] decoding response")
	}
	if !envelope.Success {
		return nil, errors.Wrap(auth.SessionExpiredErr, "[Client.Refresh] "+rejectionMessage(envelope))
	}

	var data refreshData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, errors.Wrap(err, "[Client.Refresh] decoding refresh data")
	}

	return &auth.RefreshResult{Token: data.Token, RefreshToken: data.RefreshToken}, nil
}

// Logout is a fire-and-forget acknowledgement; any server response counts as
// delivered.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, LogoutPath, nil, nil)
	if err != nil {
		return errors.Wrap(auth.NetworkFailureErr, "[Client.Logout] "+err.Error())
	}
	_ = resp.Body.Close()
	return nil
}

// ForceDevice claims the session for deviceID, invalidating the session held
// by any other device.
func (c *Client) ForceDevice(ctx context.Context, deviceID string) error {
	resp, err := c.send(ctx, http.MethodPost, ForceDevicePath, forceDeviceRequest{DeviceID: deviceID}, nil)
	if err != nil {
		return errors.Wrap(auth.NetworkFailureErr, "[Client.ForceDevice] "+err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("[Client.ForceDevice] unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.http.Do(req)
}

func decodeEnvelope(resp *http.Response) (*apiEnvelope, error) {
	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

func rejectionMessage(envelope *apiEnvelope) string {
	if envelope == nil || envelope.Message == "" {
		return "authentication rejected"
	}
	return envelope.Message
}
