package session

// Session is the client-held record of authentication validity. It is created
// on a successful login or a successful server-side session validation,
// mutated only on token refresh (token replaced, everything else untouched),
// and destroyed on logout, refresh failure, or a declined device takeover.
type Session struct {
	Token        string   `json:"token,omitempty"`    // Opaque bearer credential, empty when unauthenticated
	RefreshToken string   `json:"-"`                  // Rotated alongside Token - never serialize
	Username     string   `json:"username,omitempty"` // Display name from the server response or token payload
	Roles        []string `json:"roles,omitempty"`    // Role identifiers, membership-tested only
	DeviceID     string   `json:"device_id,omitempty"`
}

// Well-known role identifiers used by the Stocklight backend.
const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleEmployee = "ROLE_EMPLOYEE"
)

// HasRole reports whether the session holds the given role.
func (s Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the session holds at least one of the given roles.
func (s Session) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if s.HasRole(role) {
			return true
		}
	}
	return false
}

// HasAllRoles reports whether the session holds every one of the given roles.
func (s Session) HasAllRoles(roles ...string) bool {
	for _, role := range roles {
		if !s.HasRole(role) {
			return false
		}
	}
	return true
}
