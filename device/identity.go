package device

import (
	"errors"

	"github.com/google/uuid"
	"github.com/stocklight/go-inventory-client/storage"
)

// Identity manages the stable device identifier that distinguishes concurrent
// logins from different machines. The identifier is generated once per
// installation and persisted in the marker store; it survives logouts.
type Identity struct {
	repo storage.Repo
}

func NewIdentity(repo storage.Repo) *Identity {
	return &Identity{repo: repo}
}

// ID returns the device identifier, generating and persisting a new one when
// none exists yet. created reports whether a new identifier was minted on
// this call.
func (i *Identity) ID() (id string, created bool, err error) {
	id, err = i.repo.Get(storage.KeyDeviceID)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, storage.NotFoundErr) {
		return "", false, err
	}

	id = uuid.New().String()
	if err := i.repo.Put(storage.KeyDeviceID, id); err != nil {
		return "", false, err
	}
	return id, true, nil
}
