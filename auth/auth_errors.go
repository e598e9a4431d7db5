package auth

import "errors"

var (
	// NetworkFailureErr means the auth server gave no response. Fails closed:
	// the caller must treat the session as not authenticated.
	NetworkFailureErr = errors.New("no response from auth server")
	// AuthRejectedErr means the server rejected the presented credentials.
	// Only relevant at login time; it never alters an existing session.
	AuthRejectedErr = errors.New("invalid credentials")
	// SessionExpiredErr means a validate or refresh call was rejected and the
	// user must re-authenticate.
	SessionExpiredErr = errors.New("session expired")
	// DeviceConflictErr means the server reported the session active on
	// another device and the takeover was declined.
	DeviceConflictErr = errors.New("session active on another device")
)
