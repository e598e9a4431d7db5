package config

import "time"

const (
	refreshIntervalVar  = "REFRESH_INTERVAL"
	guardWaitTimeoutVar = "GUARD_WAIT_TIMEOUT"
	httpTimeoutVar      = "HTTP_TIMEOUT"
	loginRouteVar       = "LOGIN_ROUTE"
	landingRouteVar     = "LANDING_ROUTE"
)

type Auth struct{}

var _ AuthConfig = Auth{}

// GetRefreshInterval returns the cadence of the automatic token refresh.
func (Auth) GetRefreshInterval() time.Duration {
	return getDuration(refreshIntervalVar, 45*time.Minute)
}

// GetGuardWaitTimeout returns how long a navigation waits for the startup
// session validation to resolve before failing closed.
func (Auth) GetGuardWaitTimeout() time.Duration {
	return getDuration(guardWaitTimeoutVar, 3*time.Second)
}

func (Auth) GetHTTPTimeout() time.Duration {
	return getDuration(httpTimeoutVar, 15*time.Second)
}

func (Auth) GetLoginRoute() string {
	return GetEnv(loginRouteVar, "/login")
}

func (Auth) GetLandingRoute() string {
	return GetEnv(landingRouteVar, "/products")
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}
