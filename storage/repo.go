package storage

import "errors"

// Storage keys for the session markers the client persists between runs.
// They mirror what a browser client would keep in localStorage.
const (
	KeyAuthToken = "auth_token"
	KeyUserData  = "user_data"
	KeyDeviceID  = "device_id"
)

// NotFoundErr is returned by Repo.Get when the key has no stored value.
var NotFoundErr = errors.New("key not found")

// Repo is the client-side marker store. It holds the minimal session state
// that survives a process restart: the bearer token, the serialized user data,
// and the stable device identifier.
type Repo interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Delete(key string) error
}
