package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/quotekeeper/internal/client/client"
	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/quotekeeper/internal/logging"
)

// Status is the authentication state of a Session.
type Status int

const (
	StatusIdle Status = iota
	StatusAuthenticating
	StatusAuthenticated
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is a snapshot of who is signed in.
//
// Status == StatusAuthenticated iff User != nil and Credential != "".
// In StatusIdle and StatusFailed both are empty.
type Session struct {
	User       *models.User
	Credential string
	Status     Status
	LastError  string
}

func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

var (
	// ErrAuthInProgress rejects an auth call while another one is running.
	ErrAuthInProgress = errors.New("authentication already in progress")
	// ErrSessionReset is returned by a login or registration whose session
	// was logged out or expired before the server answered.
	ErrSessionReset = errors.New("session was reset")
	// ErrNoCredential is returned by Refresh when nothing is stored.
	ErrNoCredential = errors.New("no stored credential")
)

const (
	msgTokenInvalid   = "Token expired or invalid"
	msgSessionExpired = "Session expired. Please login again."
	msgAuthInProgress = "Another sign-in is already in progress"
	msgSessionReset   = "Signed out before the server answered"
)

// AuthAPI is the part of the API the session needs.
type AuthAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (*client.AuthResult, error)
	Login(ctx context.Context, creds models.Credentials) (*client.AuthResult, error)
	Me(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.UserPatch, error)
}

// SessionManager owns the process-wide Session. All changes go through its
// methods; readers get copies via Session or Subscribe.
//
// Initialize, Login, Register and Refresh share one in-flight slot: a second
// call while one is running fails fast with ErrAuthInProgress. Logout and
// Expire are never rejected; they bump an epoch so that a login still in
// flight cannot resurrect the session afterwards.
type SessionManager struct {
	api   AuthAPI
	store credentials.Store
	log   logging.Logger

	mu       sync.Mutex
	state    Session
	inFlight bool
	epoch    uint64
	version  uint64
	subs     map[int]func(Session)
	nextSub  int

	notifyMu  sync.Mutex
	delivered uint64
}

func NewSessionManager(api AuthAPI, store credentials.Store, log logging.Logger) *SessionManager {
	return &SessionManager{
		api:   api,
		store: store,
		log:   log.With("component", "session"),
		state: Session{Status: StatusIdle},
		subs:  make(map[int]func(Session)),
	}
}

// Session returns a copy of the current state.
func (m *SessionManager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *SessionManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Status == StatusAuthenticated
}

// Subscribe registers fn for every state change. fn runs on the goroutine
// that caused the change and must not call back into the manager's mutating
// methods. The returned func unsubscribes.
func (m *SessionManager) Subscribe(fn func(Session)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Initialize restores a stored credential and validates it with the server.
// Every outcome is expressed as state; it never fails.
func (m *SessionManager) Initialize(ctx context.Context) {
	if _, err := m.begin(false); err != nil {
		m.log.Warn(ctx, "initialize skipped", "error", err)
		return
	}
	defer m.end()

	credential, err := m.store.Load(ctx)
	if err != nil {
		m.log.Error(ctx, "load stored credential", "error", err)
		m.clearStore(ctx)
		m.fail(msgTokenInvalid)
		return
	}
	if credential == "" {
		m.fail("")
		return
	}

	epoch := m.setAuthenticating()

	user, err := m.api.Me(ctx)
	if err != nil {
		m.log.Info(ctx, "stored credential rejected", "status", client.StatusCode(err), "error", err)
		m.clearStore(ctx)
		m.fail(msgTokenInvalid)
		return
	}

	m.succeed(epoch, user, credential)
}

// Login authenticates, persists the credential and publishes the signed-in
// session. The error is nil or a *client.APIError.
func (m *SessionManager) Login(ctx context.Context, creds models.Credentials) error {
	if err := models.Validate(creds); err != nil {
		return client.ValidationError(err)
	}
	return m.authenticate(ctx, func(ctx context.Context) (*client.AuthResult, error) {
		return m.api.Login(ctx, creds)
	})
}

// Register creates an account and signs it in, like Login.
func (m *SessionManager) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := models.Validate(req); err != nil {
		return client.ValidationError(err)
	}
	return m.authenticate(ctx, func(ctx context.Context) (*client.AuthResult, error) {
		return m.api.Register(ctx, req)
	})
}

func (m *SessionManager) authenticate(ctx context.Context, call func(context.Context) (*client.AuthResult, error)) error {
	epoch, err := m.begin(true)
	if err != nil {
		return err
	}
	defer m.end()

	res, err := call(ctx)
	if err != nil {
		apiErr := client.AsAPIError(err)
		m.log.Info(ctx, "authentication failed", "status", apiErr.StatusCode, "error", apiErr.Message)
		m.clearStore(ctx)
		m.fail(apiErr.Message)
		return apiErr
	}

	if err := m.store.Save(ctx, res.Token); err != nil {
		m.log.Error(ctx, "persist credential", "error", err)
		m.clearStore(ctx)
		msg := "Could not save credential: " + err.Error()
		m.fail(msg)
		return &client.APIError{Message: msg, Err: err}
	}

	if !m.succeed(epoch, &res.User, res.Token) {
		m.clearStore(ctx)
		return &client.APIError{Message: msgSessionReset, Err: ErrSessionReset}
	}
	return nil
}

// Logout forgets the credential locally. It always ends in StatusFailed with
// no error; a store failure is returned for logging only.
func (m *SessionManager) Logout(ctx context.Context) error {
	err := m.store.Clear(ctx)
	if err != nil {
		m.log.Error(ctx, "clear credential on logout", "error", err)
	}
	m.reset("")
	return err
}

// Expire handles a 401 seen anywhere: credential gone, session reset.
func (m *SessionManager) Expire(ctx context.Context) {
	m.clearStore(ctx)
	m.reset(client.MsgUnauthorized)
}

// UpdateProfile sends a partial profile and merges the fields the server
// returns into the current user. Status and Credential never change here.
func (m *SessionManager) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	if err := models.Validate(update); err != nil {
		return client.ValidationError(err)
	}

	patch, err := m.api.UpdateProfile(ctx, update)
	if err != nil {
		apiErr := client.AsAPIError(err)
		m.log.Info(ctx, "profile update failed", "status", apiErr.StatusCode, "error", apiErr.Message)
		return apiErr
	}

	m.mu.Lock()
	if m.state.User != nil {
		merged := m.state.User.Merge(patch)
		m.state.User = &merged
	}
	snap, ver := m.snapshotLocked()
	m.mu.Unlock()

	m.deliver(snap, ver)
	return nil
}

// Refresh re-validates the stored credential. Any failure signs the user out
// with "Session expired. Please login again.".
func (m *SessionManager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return &client.APIError{Message: msgAuthInProgress, Err: ErrAuthInProgress}
	}
	m.inFlight = true
	epoch := m.epoch
	m.mu.Unlock()
	defer m.end()

	expired := func(err error) error {
		m.clearStore(ctx)
		m.fail(msgSessionExpired)
		apiErr := client.AsAPIError(err)
		return &client.APIError{Message: msgSessionExpired, StatusCode: apiErr.StatusCode, Err: err}
	}

	credential, err := m.store.Load(ctx)
	if err != nil {
		return expired(err)
	}
	if credential == "" {
		return expired(ErrNoCredential)
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		m.log.Info(ctx, "refresh failed", "status", client.StatusCode(err), "error", err)
		return expired(err)
	}

	if !m.succeed(epoch, user, credential) {
		return &client.APIError{Message: msgSessionReset, Err: ErrSessionReset}
	}
	return nil
}

// ClearError drops LastError.
func (m *SessionManager) ClearError() {
	m.mu.Lock()
	if m.state.LastError == "" {
		m.mu.Unlock()
		return
	}
	m.state.LastError = ""
	snap, ver := m.snapshotLocked()
	m.mu.Unlock()

	m.deliver(snap, ver)
}

// begin claims the in-flight slot. With authenticating set it also drops the
// current user and credential and moves to StatusAuthenticating.
func (m *SessionManager) begin(authenticating bool) (uint64, error) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return 0, &client.APIError{Message: msgAuthInProgress, Err: ErrAuthInProgress}
	}
	m.inFlight = true
	epoch := m.epoch
	if !authenticating {
		m.mu.Unlock()
		return epoch, nil
	}
	m.state = Session{Status: StatusAuthenticating}
	snap, ver := m.snapshotLocked()
	m.mu.Unlock()

	m.deliver(snap, ver)
	return epoch, nil
}

func (m *SessionManager) end() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}

func (m *SessionManager) setAuthenticating() uint64 {
	m.mu.Lock()
	m.state = Session{Status: StatusAuthenticating}
	epoch := m.epoch
	snap, ver := m.snapshotLocked()
	m.mu.Unlock()

	m.deliver(snap, ver)
	return epoch
}

// succeed publishes the signed-in state unless a logout or expiry happened
// since epoch was taken.
func (m *SessionManager) succeed(epoch uint64, user *models.User, credential string) bool {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return false
	}
	u := *user
	m.state = Session{User: &u, Credential: credential, Status: StatusAuthenticated}
	snap, ver := m.snapshotLocked()
	m.mu.Unlock()

	m.deliver(snap, ver)
	return true
}

func (m *SessionManager) fail(msg string) {
	m.mu.Lock()
	m.state = Session{Status: StatusFailed, LastError: msg}
	snap, ver := m.snapshotLocked()
	m.mu.Unlock()

	m.deliver(snap, ver)
}

func (m *SessionManager) reset(msg string) {
	m.mu.Lock()
	m.epoch++
	m.state = Session{Status: StatusFailed, LastError: msg}
	snap, ver := m.snapshotLocked()
	m.mu.Unlock()

	m.deliver(snap, ver)
}

func (m *SessionManager) clearStore(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "clear stored credential", "error", err)
	}
}

func (m *SessionManager) snapshotLocked() (Session, uint64) {
	m.version++
	return m.state.clone(), m.version
}

// deliver hands snap to subscribers. Snapshots older than one already
// delivered are dropped so subscribers never go back in time.
func (m *SessionManager) deliver(snap Session, ver uint64) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	if ver <= m.delivered {
		return
	}
	m.delivered = ver

	m.mu.Lock()
	subs := make([]func(Session), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snap.clone())
	}
}
