package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
)

// Profile prints a user's profile with statistics from their quotes.
func (a *App) Profile(ctx context.Context, userID models.ID) error {
	p, err := a.users.ProfilePage(ctx, userID)
	if err != nil {
		return err
	}
	printlnFn(renderUser(p.User, p.Stats, time.Now()))
	return nil
}

// Users prints the authors directory.
func (a *App) Users(ctx context.Context) error {
	d, err := a.users.Directory(ctx)
	if err != nil {
		return err
	}
	printlnFn(renderDirectory(d, time.Now()))
	return nil
}
