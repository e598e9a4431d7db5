package config

import "os"

const (
	appNameVar     = "APP_NAME"
	baseURLVar     = "BASE_URL"
	storagePathVar = "STORAGE_PATH"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Stocklight Client")
}

// GetBaseURL returns the base URL of the inventory backend all API calls are
// made against (e.g. "https://api.stocklight.example.com").
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

// GetStoragePath returns the path of the local session marker database.
func (EnvVars) GetStoragePath() string {
	return GetEnv(storagePathVar, "./data/session.db")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
