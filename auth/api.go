package auth

import "context"

// Credentials are the login inputs the Stocklight backend expects.
type Credentials struct {
	Document string
	Password string
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	Token        string
	RefreshToken string
	Username     string
	Roles        []string
}

// ValidateResult is the payload of a successful server-side session
// validation. Username and roles are not always included; the manager falls
// back to the token payload when they are absent.
type ValidateResult struct {
	Token    string
	DeviceID string // Server-reported device identifier, may be empty
}

// RefreshResult is the payload of a successful token refresh.
type RefreshResult struct {
	Token        string
	RefreshToken string
}

// API is the wire contract with the auth endpoints. Credentials for validate,
// refresh and logout travel by an ambient mechanism (an HTTP-only cookie)
// that this interface does not model. Implementations map transport failures
// to NetworkFailureErr and rejections to AuthRejectedErr or SessionExpiredErr.
type API interface {
	Login(ctx context.Context, creds Credentials, deviceID string) (*LoginResult, error)
	Validate(ctx context.Context) (*ValidateResult, error)
	Refresh(ctx context.Context) (*RefreshResult, error)
	Logout(ctx context.Context) error
	ForceDevice(ctx context.Context, deviceID string) error
}

// ConflictResolver is the decision point for a multi-device conflict. It is a
// UI-layer concern injected as a callback: takeover true invalidates the other
// device's session server-side, false triggers a local logout. Session use is
// blocked until the resolver returns.
type ConflictResolver interface {
	ResolveDeviceConflict(ctx context.Context, localID, serverID string) (takeover bool, err error)
}

// ConflictResolverFunc adapts a function to the ConflictResolver interface.
type ConflictResolverFunc func(ctx context.Context, localID, serverID string) (bool, error)

func (f ConflictResolverFunc) ResolveDeviceConflict(ctx context.Context, localID, serverID string) (bool, error) {
	return f(ctx, localID, serverID)
}
