package apifakes

import (
	"context"
	"sync"

	"github.com/stocklight/go-inventory-client/auth"
)

var _ auth.API = (*FakeAuthAPI)(nil)

// FakeAuthAPI is a scriptable auth.API for tests. Each call delegates to the
// corresponding func field when set, otherwise it behaves as an unreachable
// server (NetworkFailureErr). Call counts are recorded for assertions.
type FakeAuthAPI struct {
	LoginFunc       func(ctx context.Context, creds auth.Credentials, deviceID string) (*auth.LoginResult, error)
	ValidateFunc    func(ctx context.Context) (*auth.ValidateResult, error)
	RefreshFunc     func(ctx context.Context) (*auth.RefreshResult, error)
	LogoutFunc      func(ctx context.Context) error
	ForceDeviceFunc func(ctx context.Context, deviceID string) error

	lock             sync.Mutex
	loginCalls       int
	validateCalls    int
	refreshCalls     int
	logoutCalls      int
	forceDeviceCalls int
	lastLoginDevice  string
	lastForcedDevice string
}

func NewFakeAuthAPI() *FakeAuthAPI {
	return &FakeAuthAPI{}
}

func (f *FakeAuthAPI) Login(ctx context.Context, creds auth.Credentials, deviceID string) (*auth.LoginResult, error) {
	f.lock.Lock()
	f.loginCalls++
	f.lastLoginDevice = deviceID
	f.lock.Unlock()

	if f.LoginFunc == nil {
		return nil, auth.NetworkFailureErr
	}
	return f.LoginFunc(ctx, creds, deviceID)
}

func (f *FakeAuthAPI) Validate(ctx context.Context) (*auth.ValidateResult, error) {
	f.lock.Lock()
	f.validateCalls++
	f.lock.Unlock()

	if f.ValidateFunc == nil {
		return nil, auth.NetworkFailureErr
	}
	return f.ValidateFunc(ctx)
}

func (f *FakeAuthAPI) Refresh(ctx context.Context) (*auth.RefreshResult, error) {
	f.lock.Lock()
	f.refreshCalls++
	f.lock.Unlock()

	if f.RefreshFunc == nil {
		return nil, auth.NetworkFailureErr
	}
	return f.RefreshFunc(ctx)
}

func (f *FakeAuthAPI) Logout(ctx context.Context) error {
	f.lock.Lock()
	f.logoutCalls++
	f.lock.Unlock()

	if f.LogoutFunc == nil {
		return nil
	}
	return f.LogoutFunc(ctx)
}

func (f *FakeAuthAPI) ForceDevice(ctx context.Context, deviceID string) error {
	f.lock.Lock()
	f.forceDeviceCalls++
	f.lastForcedDevice = deviceID
	f.lock.Unlock()

	if f.ForceDeviceFunc == nil {
		return nil
	}
	return f.ForceDeviceFunc(ctx, deviceID)
}

func (f *FakeAuthAPI) LoginCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.loginCalls
}

func (f *FakeAuthAPI) RefreshCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.refreshCalls
}

func (f *FakeAuthAPI) LogoutCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.logoutCalls
}

func (f *FakeAuthAPI) ForceDeviceCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.forceDeviceCalls
}

func (f *FakeAuthAPI) LastLoginDevice() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.lastLoginDevice
}

func (f *FakeAuthAPI) LastForcedDevice() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.lastForcedDevice
}
