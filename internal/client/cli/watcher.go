package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/quotekeeper/internal/client/auth"
	"github.com/dmitrijs2005/quotekeeper/internal/client/services"
)

// nowFn is a test seam for the session watcher clock.
var nowFn = time.Now

// StartSessionWatcher checks the session every interval and re-validates it
// with the server once the bearer credential's exp claim has passed. It
// blocks until ctx is done.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkSession(ctx)

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkSession(ctx context.Context) {
	s := a.session.Session()
	if s.Status != services.StatusAuthenticated {
		return
	}
	if err := auth.CheckExpiry(s.Credential, nowFn()); !auth.IsExpired(err) {
		return
	}

	a.log.Info(ctx, "credential expired, re-validating session")

	rctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()
	if err := a.session.Refresh(rctx); err != nil {
		a.log.Warn(ctx, "session refresh failed", "error", err)
	}
}

// watchStatus prints sign-in and sign-out transitions published by the
// session. A re-login passes through StatusAuthenticating without printing
// a sign-out unless it fails. The returned func stops it.
func (a *App) watchStatus() func() {
	var mu sync.Mutex
	last := a.session.Session().Status
	signedIn := last == services.StatusAuthenticated

	return a.session.Subscribe(func(s services.Session) {
		mu.Lock()
		defer mu.Unlock()

		prev := last
		last = s.Status

		switch s.Status {
		case services.StatusAuthenticating:
			return
		case services.StatusAuthenticated:
			if signedIn && prev == services.StatusAuthenticated {
				return
			}
			signedIn = true
			printlnFn(fmt.Sprintf("Signed in as %s", s.User.Username))
		default:
			if !signedIn {
				return
			}
			signedIn = false
			if s.LastError != "" {
				printlnFn(renderNotice("Signed out: " + s.LastError))
				return
			}
			printlnFn("Signed out.")
		}
	})
}
