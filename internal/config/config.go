package config

import "time"

type Config interface {
	EnvConfig
	AuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetBaseURL() string
	GetStoragePath() string
	GetEnv() string
}

type AuthConfig interface {
	GetRefreshInterval() time.Duration
	GetGuardWaitTimeout() time.Duration
	GetHTTPTimeout() time.Duration
	GetLoginRoute() string
	GetLandingRoute() string
}

type mainConfig struct {
	EnvVars
	Auth
}

func New() Config {
	return mainConfig{}
}
