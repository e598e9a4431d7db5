package storefakes

import (
	"sync"

	"github.com/stocklight/go-inventory-client/storage"
)

var _ storage.Repo = (*FakeRepo)(nil)

// FakeRepo is an in-memory storage.Repo for tests.
type FakeRepo struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeRepo() *FakeRepo {
	return &FakeRepo{values: make(map[string]string)}
}

func (r *FakeRepo) Get(key string) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	value, ok := r.values[key]
	if !ok {
		return "", storage.NotFoundErr
	}
	return value, nil
}

func (r *FakeRepo) Put(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.values[key] = value
	return nil
}

func (r *FakeRepo) Delete(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.values, key)
	return nil
}

// Len reports how many markers are currently stored.
func (r *FakeRepo) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.values)
}
