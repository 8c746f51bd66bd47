package cli

import (
	"context"

	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/client/services"
)

type listKind int

const (
	listAll listKind = iota
	listMine
	listUser
	listSingle
)

// listing is the set of quotes currently on screen. Every quote gets its own
// Reconciler; replacing the listing closes them so late reaction results are
// dropped.
type listing struct {
	kind   listKind
	userID models.ID
	page   *models.QuotePage
	order  []models.ID
	quotes map[models.ID]models.Quote
	cards  map[models.ID]*services.Reconciler
}

func newListing(kind listKind, userID models.ID, page *models.QuotePage) *listing {
	return &listing{
		kind:   kind,
		userID: userID,
		page:   page,
		quotes: make(map[models.ID]models.Quote),
		cards:  make(map[models.ID]*services.Reconciler),
	}
}

func (l *listing) hasMore() bool {
	return l.kind != listSingle && l.page != nil && l.page.HasMore()
}

func (l *listing) close() {
	for _, r := range l.cards {
		r.Close()
	}
}

// setView replaces the displayed listing.
func (a *App) setView(l *listing) {
	a.mu.Lock()
	old := a.view
	a.view = l
	a.mu.Unlock()

	if old != nil {
		old.close()
	}
}

func (a *App) currentView() *listing {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// track adds q to l with a fresh Reconciler that prints every view change.
func (a *App) track(l *listing, q models.Quote) *services.Reconciler {
	rec := services.NewReconciler(q, a.reactions, a.session, a.log)
	rec.OnChange(func(v services.ReactionView) {
		pending := models.ReactionNone
		for _, r := range []models.Reaction{models.ReactionLike, models.ReactionDislike} {
			if rec.Pending(r) {
				pending = r
			}
		}
		printlnFn(renderReactionUpdate(v, pending))
	})

	if _, ok := l.quotes[q.ID]; !ok {
		l.order = append(l.order, q.ID)
	}
	if old, ok := l.cards[q.ID]; ok {
		old.Close()
	}
	l.quotes[q.ID] = q
	l.cards[q.ID] = rec
	return rec
}

// forget removes a quote from the displayed listing.
func (a *App) forget(id models.ID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	l := a.view
	if l == nil {
		return
	}
	if r, ok := l.cards[id]; ok {
		r.Close()
	}
	delete(l.cards, id)
	delete(l.quotes, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// reconcilerFor returns the Reconciler of a displayed quote. Quotes not on
// screen are fetched and added to the current listing.
func (a *App) reconcilerFor(ctx context.Context, id models.ID) (*services.Reconciler, error) {
	a.mu.Lock()
	if a.view != nil {
		if r, ok := a.view.cards[id]; ok {
			a.mu.Unlock()
			return r, nil
		}
	}
	a.mu.Unlock()

	q, err := a.quotes.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.view == nil {
		a.view = newListing(listSingle, "", &models.QuotePage{Quotes: []models.Quote{*q}})
	}
	return a.track(a.view, *q), nil
}

// displayedQuote returns the on-screen state of a quote, if any.
func (a *App) displayedQuote(id models.ID) (models.Quote, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.view == nil {
		return models.Quote{}, false
	}
	q, ok := a.view.quotes[id]
	return q, ok
}
