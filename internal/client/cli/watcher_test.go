package cli

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/client/services"
	"github.com/dmitrijs2005/quotekeeper/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeSession is a sessionService with a settable snapshot.
type fakeSession struct {
	mu       sync.Mutex
	state    services.Session
	subs     []func(services.Session)
	refreshN atomic.Int32
}

func (f *fakeSession) set(s services.Session) {
	f.mu.Lock()
	f.state = s
	subs := append([]func(services.Session)(nil), f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

func (f *fakeSession) Session() services.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSession) IsAuthenticated() bool {
	return f.Session().Status == services.StatusAuthenticated
}

func (f *fakeSession) Subscribe(fn func(services.Session)) func() {
	f.mu.Lock()
	f.subs = append(f.subs, fn)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.subs = nil
		f.mu.Unlock()
	}
}

func (f *fakeSession) Initialize(context.Context)                                {}
func (f *fakeSession) Login(context.Context, models.Credentials) error           { return nil }
func (f *fakeSession) Register(context.Context, models.RegisterRequest) error    { return nil }
func (f *fakeSession) Logout(context.Context) error                              { return nil }
func (f *fakeSession) UpdateProfile(context.Context, models.ProfileUpdate) error { return nil }
func (f *fakeSession) ClearError()                                               {}

func (f *fakeSession) Refresh(context.Context) error {
	f.refreshN.Add(1)
	f.set(services.Session{Status: services.StatusFailed, LastError: "Session expired. Please login again."})
	return nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func watcherApp(sess sessionService) *App {
	return &App{config: testConfig("http://localhost:5002/api"), log: logging.NewNopLogger(), session: sess}
}

func TestSessionWatcher_RefreshesExpiredCredential(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	captureOutput(t)

	sess := &fakeSession{}
	sess.set(services.Session{
		Status:     services.StatusAuthenticated,
		User:       &models.User{ID: "u1", Username: "alice"},
		Credential: signedToken(t, time.Now().Add(-time.Minute)),
	})
	a := watcherApp(sess)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.StartSessionWatcher(ctx, 5*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return sess.refreshN.Load() > 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, int32(1), sess.refreshN.Load(), "no refresh once signed out")
}

func TestSessionWatcher_LeavesValidSessionAlone(t *testing.T) {
	origNow := nowFn
	t.Cleanup(func() { nowFn = origNow })
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	nowFn = func() time.Time { return now }

	sess := &fakeSession{}
	a := watcherApp(sess)

	sess.set(services.Session{
		Status:     services.StatusAuthenticated,
		User:       &models.User{Username: "alice"},
		Credential: signedToken(t, now.Add(time.Hour)),
	})
	a.checkSession(context.Background())

	sess.set(services.Session{
		Status:     services.StatusAuthenticated,
		User:       &models.User{Username: "alice"},
		Credential: "opaque-token",
	})
	a.checkSession(context.Background())

	sess.set(services.Session{Status: services.StatusFailed})
	a.checkSession(context.Background())

	assert.Zero(t, sess.refreshN.Load())

	now = now.Add(2 * time.Hour)
	sess.set(services.Session{
		Status:     services.StatusAuthenticated,
		User:       &models.User{Username: "alice"},
		Credential: signedToken(t, now.Add(-time.Hour)),
	})
	a.checkSession(context.Background())
	assert.Equal(t, int32(1), sess.refreshN.Load())
}

func TestWatchStatus_PrintsTransitions(t *testing.T) {
	out := captureOutput(t)
	sess := &fakeSession{}
	a := watcherApp(sess)

	stop := a.watchStatus()
	sess.set(services.Session{Status: services.StatusAuthenticating})
	sess.set(services.Session{Status: services.StatusAuthenticated, User: &models.User{Username: "alice"}, Credential: "t"})
	sess.set(services.Session{Status: services.StatusAuthenticated, User: &models.User{Username: "alice2"}, Credential: "t"})
	sess.set(services.Session{Status: services.StatusFailed, LastError: "Session expired. Please login again."})
	sess.set(services.Session{Status: services.StatusFailed})
	stop()
	sess.set(services.Session{Status: services.StatusAuthenticated, User: &models.User{Username: "bob"}, Credential: "t"})

	text := out.String()
	assert.Contains(t, text, "Signed in as alice")
	assert.Contains(t, text, "Signed out: Session expired. Please login again.")
	assert.Equal(t, 2, strings.Count(text, "Signed"))
	assert.NotContains(t, text, "bob")
}

func TestWatchStatus_Relogin(t *testing.T) {
	out := captureOutput(t)
	sess := &fakeSession{}
	sess.set(services.Session{Status: services.StatusAuthenticated, User: &models.User{Username: "alice"}, Credential: "t1"})
	a := watcherApp(sess)

	stop := a.watchStatus()
	defer stop()
	sess.set(services.Session{Status: services.StatusAuthenticating})
	sess.set(services.Session{Status: services.StatusAuthenticated, User: &models.User{Username: "bob"}, Credential: "t2"})
	sess.set(services.Session{Status: services.StatusAuthenticating})
	sess.set(services.Session{Status: services.StatusFailed, LastError: "Invalid credentials"})

	text := out.String()
	assert.Contains(t, text, "Signed in as bob")
	assert.Contains(t, text, "Signed out: Invalid credentials")
	assert.Equal(t, 2, strings.Count(text, "Signed"))
}
