package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/quotekeeper/internal/client/auth"
	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/common"
	"github.com/dustin/go-humanize"
)

// Register prompts for a username, email and password and creates an
// account. On success the new user is signed in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.session.Register(ctx, models.RegisterRequest{Username: username, Email: email, Password: string(password)})
	a.session.ClearError()
	return err
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.session.Login(ctx, models.Credentials{Email: email, Password: string(password)})
	a.session.ClearError()
	return err
}

// Logout forgets the stored credential. It never talks to the server.
func (a *App) Logout(ctx context.Context) error {
	err := a.session.Logout(ctx)
	if err != nil {
		a.log.Error(ctx, "logout", "error", err)
	}
	printlnFn("Logged out.")
	return nil
}

// WhoAmI prints the signed-in user and when the credential expires.
func (a *App) WhoAmI(context.Context) error {
	s := a.session.Session()
	if s.User == nil {
		printlnFn("Not logged in.")
		if s.LastError != "" {
			printlnFn(renderNotice(s.LastError))
		}
		return nil
	}

	now := time.Now()
	printlnFn(renderUser(*s.User, nil, now))
	if exp, ok := auth.ExpiresAt(s.Credential); ok {
		printlnFn(mutedStyle.Render("Session expires " + humanize.RelTime(exp, now, "ago", "from now")))
	}
	return nil
}

// EditProfile prompts for a new username and email. Empty answers keep the
// current values.
func (a *App) EditProfile(ctx context.Context) error {
	s := a.session.Session()
	if s.User == nil {
		return nil
	}

	username, err := getSimpleText(a.reader, fmt.Sprintf("Username [%s]", s.User.Username), os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, fmt.Sprintf("Email [%s]", s.User.Email), os.Stdout)
	if err != nil {
		return err
	}

	var update models.ProfileUpdate
	if username != "" && username != s.User.Username {
		update.Username = username
	}
	if email != "" && email != s.User.Email {
		update.Email = email
	}
	if update == (models.ProfileUpdate{}) {
		printlnFn("Nothing to change.")
		return nil
	}

	if err := a.session.UpdateProfile(ctx, update); err != nil {
		return err
	}
	printlnFn("Profile updated.")
	return nil
}

// Refresh re-validates the stored credential with the server.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.session.Refresh(ctx); err != nil {
		a.session.ClearError()
		return err
	}
	printlnFn("Session is valid.")
	return nil
}
