package auth

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/stocklight/go-inventory-client/device"
	"github.com/stocklight/go-inventory-client/session"
	"github.com/stocklight/go-inventory-client/storage"
)

const (
	// defaultRefreshInterval is the cadence of the automatic token refresh.
	defaultRefreshInterval = 45 * time.Minute

	// scheduledRefreshTimeout bounds the network call made by the refresh
	// timer, which has no caller-supplied context.
	scheduledRefreshTimeout = 30 * time.Second
)

// Manager owns the session lifecycle: it establishes, refreshes, and tears
// down the authenticated session and resolves multi-device conflicts. It is
// the only writer of the session.Store; everything else reads snapshots.
type Manager struct {
	api      API
	store    *session.Store
	markers  storage.Repo
	identity *device.Identity
	resolver ConflictResolver

	refreshInterval time.Duration

	mu    sync.Mutex
	epoch uint64
	timer *time.Timer
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithRefreshInterval overrides the automatic refresh cadence.
func WithRefreshInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.refreshInterval = d
	}
}

// WithConflictResolver sets the decision point invoked on a device conflict.
// Without one, conflicts are declined (fail closed).
func WithConflictResolver(r ConflictResolver) ManagerOption {
	return func(m *Manager) {
		m.resolver = r
	}
}

// NewManager initializes a Manager with its required dependencies. Optional
// configuration can be provided via options.
func NewManager(api API, store *session.Store, markers storage.Repo, options ...ManagerOption) (*Manager, error) {
	if api == nil {
		return nil, errors.New("[NewManager] api is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] store is required")
	}
	if markers == nil {
		return nil, errors.New("[NewManager] markers repo is required")
	}

	m := &Manager{
		api:             api,
		store:           store,
		markers:         markers,
		identity:        device.NewIdentity(markers),
		refreshInterval: defaultRefreshInterval,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Login sends the credentials plus the device identifier to the auth
// endpoint. On success it installs the session, persists the markers, and
// arms the refresh timer. On failure the session remains exactly as it was
// and the caller receives AuthRejectedErr or NetworkFailureErr.
func (m *Manager) Login(ctx context.Context, document, password string) (session.Session, error) {
	deviceID, created, err := m.identity.ID()
	if err != nil {
		return session.Session{}, errors.Wrap(err, "[Manager.Login] device identity")
	}
	if created {
		log.Info().Str("device_id", deviceID).Msg("Generated new device identifier")
	}

	res, err := m.api.Login(ctx, Credentials{Document: document, Password: password}, deviceID)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "[Manager.Login] api.Login")
	}

	sess := session.Session{
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
		Username:     res.Username,
		Roles:        res.Roles,
		DeviceID:     deviceID,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++
	m.store.SetAuthenticated(sess)
	m.persistMarkersLocked(sess)
	m.armRefreshLocked()

	return sess, nil
}

// ValidateExistingSession asks the server to validate any server-held session
// marker. Called once at application start. On success the session is
// reconstructed (decoding the token payload when the server omits user
// fields) and the refresh timer armed; on failure the session clears silently
// because absence of a prior session is not an error. A declined device
// takeover returns DeviceConflictErr after logging out locally.
func (m *Manager) ValidateExistingSession(ctx context.Context) error {
	epoch := m.currentEpoch()

	res, err := m.api.Validate(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("No existing session to restore")
		m.clearIfCurrent(epoch)
		return nil
	}

	localID, created, err := m.identity.ID()
	if err != nil {
		m.clearIfCurrent(epoch)
		return errors.Wrap(err, "[Manager.ValidateExistingSession] device identity")
	}
	if created {
		log.Info().Str("device_id", localID).Msg("Generated new device identifier")
	}

	// A differing server-side device id means the session is active on
	// another device. Session use blocks here until the takeover decision is
	// made. A freshly minted local id has nothing to conflict with.
	if res.DeviceID != "" && !created && res.DeviceID != localID {
		takeover := m.resolveConflict(ctx, localID, res.DeviceID)
		if !takeover {
			_ = m.Logout(ctx)
			return errors.Wrap(DeviceConflictErr, "[Manager.ValidateExistingSession] takeover declined")
		}
		if err := m.api.ForceDevice(ctx, localID); err != nil {
			_ = m.Logout(ctx)
			return errors.Wrap(err, "[Manager.ValidateExistingSession] api.ForceDevice")
		}
		log.Info().Str("device_id", localID).Msg("Session taken over from another device")
	}

	username, roles := claimsFromToken(res.Token)
	sess := session.Session{
		Token:    res.Token,
		Username: username,
		Roles:    roles,
		DeviceID: localID,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if epoch != m.epoch {
		// A login or logout completed while this call was in flight; its
		// outcome wins.
		return nil
	}
	m.epoch++
	m.store.SetAuthenticated(sess)
	m.persistMarkersLocked(sess)
	m.armRefreshLocked()

	return nil
}

// Refresh requests a new token using the existing session credentials. On
// success the token is replaced (roles and username untouched) and the timer
// re-armed; on failure the session clears and SessionExpiredErr (or
// NetworkFailureErr) signals that the user must re-authenticate. A result
// arriving after a logout or new login is discarded.
func (m *Manager) Refresh(ctx context.Context) error {
	epoch := m.currentEpoch()

	res, err := m.api.Refresh(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if epoch != m.epoch {
		return nil
	}
	if err != nil {
		m.epoch++
		m.stopTimerLocked()
		m.store.Clear()
		m.clearMarkersLocked()
		return errors.Wrap(err, "[Manager.Refresh] api.Refresh")
	}

	m.store.ReplaceToken(res.Token, res.RefreshToken)
	if err := m.markers.Put(storage.KeyAuthToken, res.Token); err != nil {
		log.Warn().Err(err).Msg("Failed to persist refreshed token marker")
	}
	m.armRefreshLocked()

	return nil
}

// Logout notifies the server best-effort, then unconditionally clears the
// local session, markers, and refresh timer. It never fails to clear local
// state, even offline, and calling it twice leaves the same cleared state.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.api.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("Server logout failed; clearing local session anyway")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++
	m.stopTimerLocked()
	m.store.Clear()
	m.clearMarkersLocked()

	return nil
}

// Close stops the refresh timer. The session itself is left untouched.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
}

func (m *Manager) resolveConflict(ctx context.Context, localID, serverID string) bool {
	if m.resolver == nil {
		log.Warn().Msg("Device conflict detected with no resolver configured; declining takeover")
		return false
	}
	takeover, err := m.resolver.ResolveDeviceConflict(ctx, localID, serverID)
	if err != nil {
		log.Warn().Err(err).Msg("Device conflict resolver failed; declining takeover")
		return false
	}
	return takeover
}

func (m *Manager) currentEpoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// clearIfCurrent fails the session closed unless a concurrent login or
// logout already replaced the state this operation started under.
func (m *Manager) clearIfCurrent(epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if epoch != m.epoch {
		return
	}
	m.epoch++
	m.stopTimerLocked()
	m.store.Clear()
	m.clearMarkersLocked()
}

// userData is the serialized form of the user marker, mirroring what the
// browser client keeps in localStorage.
type userData struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// Marker persistence is best-effort: a storage failure must never lose the
// in-memory session.
func (m *Manager) persistMarkersLocked(sess session.Session) {
	if err := m.markers.Put(storage.KeyAuthToken, sess.Token); err != nil {
		log.Warn().Err(err).Msg("Failed to persist auth token marker")
	}

	data, err := json.Marshal(userData{Username: sess.Username, Roles: sess.Roles})
	if err == nil {
		err = m.markers.Put(storage.KeyUserData, string(data))
	}
	if err != nil {
		log.Warn().Err(err).Msg("Failed to persist user data marker")
	}
}

// clearMarkersLocked removes the session markers. The device identifier is
// deliberately kept: it identifies the installation, not the session.
func (m *Manager) clearMarkersLocked() {
	if err := m.markers.Delete(storage.KeyAuthToken); err != nil {
		log.Warn().Err(err).Msg("Failed to clear auth token marker")
	}
	if err := m.markers.Delete(storage.KeyUserData); err != nil {
		log.Warn().Err(err).Msg("Failed to clear user data marker")
	}
}

func (m *Manager) armRefreshLocked() {
	// Overlapping timers must not stack: cancel before arming.
	m.stopTimerLocked()
	m.timer = time.AfterFunc(m.refreshInterval, m.scheduledRefresh)
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) scheduledRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), scheduledRefreshTimeout)
	defer cancel()
	if err := m.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Scheduled token refresh failed; re-authentication required")
	}
}
