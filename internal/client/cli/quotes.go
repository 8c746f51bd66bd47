package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/client/services"
)

var errNotOwner = errors.New("you can only change your own quotes")

// List shows a page of all quotes, newest first.
func (a *App) List(ctx context.Context, page int) error {
	return a.showPage(ctx, listAll, "", page)
}

// Mine shows the current user's quotes.
func (a *App) Mine(ctx context.Context) error {
	return a.showPage(ctx, listMine, a.currentUserID(), 1)
}

// UserQuotes shows the quotes of one author.
func (a *App) UserQuotes(ctx context.Context, userID models.ID) error {
	return a.showPage(ctx, listUser, userID, 1)
}

// More shows the next page of the current listing.
func (a *App) More(ctx context.Context) error {
	l := a.currentView()
	if l == nil || !l.hasMore() {
		printlnFn("No more quotes.")
		return nil
	}
	return a.showPage(ctx, l.kind, l.userID, l.page.Page+1)
}

func (a *App) showPage(ctx context.Context, kind listKind, userID models.ID, page int) error {
	var (
		p     *models.QuotePage
		err   error
		title string
	)
	switch kind {
	case listMine:
		p, err = a.quotes.ListByUser(ctx, userID, page, 0)
		title = "My quotes"
	case listUser:
		p, err = a.quotes.ListByUser(ctx, userID, page, 0)
	default:
		p, err = a.quotes.List(ctx, page, 0)
		title = "Latest quotes"
	}
	if err != nil {
		return err
	}
	if kind == listUser {
		title = "Quotes by " + a.authorName(p, userID)
	}

	a.display(newListing(kind, userID, p), title)
	return nil
}

// display makes l the current listing and prints it.
func (a *App) display(l *listing, title string) {
	me := a.currentUserID()
	now := time.Now()

	cards := make([]string, 0, len(l.page.Quotes))
	for _, q := range l.page.Quotes {
		rec := a.track(l, q)
		cards = append(cards, renderQuote(q, rec.View(), q.OwnedBy(me), now))
	}
	a.setView(l)
	printlnFn(renderPage(title, l.page, cards))
}

func (a *App) authorName(p *models.QuotePage, userID models.ID) string {
	if p != nil {
		for _, q := range p.Quotes {
			if q.AuthorID == userID && q.AuthorUsername != "" {
				return q.AuthorUsername
			}
		}
	}
	return "#" + userID.String()
}

// Show displays a single quote.
func (a *App) Show(ctx context.Context, id models.ID) error {
	q, err := a.quotes.Get(ctx, id)
	if err != nil {
		return err
	}
	a.display(newListing(listSingle, "", &models.QuotePage{Quotes: []models.Quote{*q}}), "Quote")
	return nil
}

// Add prompts for the content of a new quote and publishes it.
func (a *App) Add(ctx context.Context) error {
	content, err := getMultiline(a.reader, fmt.Sprintf("Enter your quote (%d-%d characters):", models.QuoteMinLength, models.QuoteMaxLength), os.Stdout)
	if err != nil {
		return err
	}

	q, err := a.quotes.Create(ctx, content)
	if err != nil {
		return err
	}

	printlnFn("Quote published.")
	a.display(newListing(listSingle, "", &models.QuotePage{Quotes: []models.Quote{*q}}), "Quote")
	return nil
}

// Edit replaces the content of one of the user's quotes.
func (a *App) Edit(ctx context.Context, id models.ID) error {
	q, err := a.ownQuote(ctx, id)
	if err != nil {
		return err
	}

	printlnFn(mutedStyle.Render("Current text:"))
	printlnFn(q.Content)
	content, err := getMultiline(a.reader, "Enter the new text (empty to keep):", os.Stdout)
	if err != nil {
		return err
	}
	if content == "" || content == q.Content {
		printlnFn("Nothing to change.")
		return nil
	}

	updated, err := a.quotes.Update(ctx, id, content)
	if err != nil {
		return err
	}

	printlnFn("Quote updated.")
	a.display(newListing(listSingle, "", &models.QuotePage{Quotes: []models.Quote{*updated}}), "Quote")
	return nil
}

// Delete removes one of the user's quotes after confirmation.
func (a *App) Delete(ctx context.Context, id models.ID) error {
	if q, ok := a.displayedQuote(id); ok && !q.OwnedBy(a.currentUserID()) {
		return errNotOwner
	}
	if !confirm(a.reader, fmt.Sprintf("Delete quote #%s?", id)) {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.quotes.Delete(ctx, id); err != nil {
		return err
	}
	a.forget(id)
	printlnFn("Quote deleted.")
	return nil
}

// ownQuote fetches a quote and checks that the current user wrote it. The
// server still has the final word.
func (a *App) ownQuote(ctx context.Context, id models.ID) (*models.Quote, error) {
	q, err := a.quotes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.OwnedBy(a.currentUserID()) {
		return nil, errNotOwner
	}
	return q, nil
}

// React likes or dislikes a quote. The reconciler prints the optimistic view
// and then the reconciled or rolled back one.
func (a *App) React(ctx context.Context, id models.ID, action models.Reaction) error {
	rec, err := a.reconcilerFor(ctx, id)
	if err != nil {
		return err
	}

	_, err = rec.React(ctx, action)
	switch {
	case errors.Is(err, services.ErrReactionInFlight):
		printlnFn(renderNotice("Still sending your previous reaction to this quote."))
		return nil
	case errors.Is(err, services.ErrReconcilerClosed):
		return nil
	}
	return err
}
