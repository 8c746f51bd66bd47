package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/quotekeeper/internal/client/client"
	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/logging"
)

var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrReactionInFlight = errors.New("a reaction for this quote is already in progress")
	ErrReconcilerClosed = errors.New("quote is no longer displayed")
)

// ReactionView is the locally tracked reaction state of one displayed quote.
type ReactionView struct {
	QuoteID       models.ID
	LikesCount    int
	DislikesCount int
	UserReaction  models.Reaction
}

// ViewOf seeds a ReactionView from a server quote record.
func ViewOf(q models.Quote) ReactionView {
	return ReactionView{
		QuoteID:       q.ID,
		LikesCount:    max(q.LikesCount, 0),
		DislikesCount: max(q.DislikesCount, 0),
		UserReaction:  q.UserReaction,
	}
}

// Predict applies toggle/swap semantics: repeating the active reaction clears
// it, choosing the other one moves the mark, and with no mark the chosen one
// is added. Counts never drop below zero.
func Predict(v ReactionView, action models.Reaction) ReactionView {
	switch action {
	case models.ReactionLike:
		if v.UserReaction == models.ReactionLike {
			v.LikesCount = max(v.LikesCount-1, 0)
			v.UserReaction = models.ReactionNone
			return v
		}
		v.LikesCount++
		if v.UserReaction == models.ReactionDislike {
			v.DislikesCount = max(v.DislikesCount-1, 0)
		}
		v.UserReaction = models.ReactionLike
	case models.ReactionDislike:
		if v.UserReaction == models.ReactionDislike {
			v.DislikesCount = max(v.DislikesCount-1, 0)
			v.UserReaction = models.ReactionNone
			return v
		}
		v.DislikesCount++
		if v.UserReaction == models.ReactionLike {
			v.LikesCount = max(v.LikesCount-1, 0)
		}
		v.UserReaction = models.ReactionDislike
	}
	return v
}

// Reconcile overwrites v with every field the server provided; omitted
// fields keep their current values.
func Reconcile(v ReactionView, r *models.ReactionResult) ReactionView {
	if r == nil {
		return v
	}
	if r.LikesCount != nil {
		v.LikesCount = max(*r.LikesCount, 0)
	}
	if r.DislikesCount != nil {
		v.DislikesCount = max(*r.DislikesCount, 0)
	}
	if r.UserReaction != nil {
		v.UserReaction = *r.UserReaction
	}
	return v
}

// ReactionAPI posts a reaction.
type ReactionAPI interface {
	React(ctx context.Context, id models.ID, action models.Reaction) (*models.ReactionResult, error)
}

// AuthChecker tells whether someone is signed in.
type AuthChecker interface {
	IsAuthenticated() bool
}

// Reconciler drives optimistic reactions for one displayed quote:
// predict and show, send, then reconcile with the answer or roll back to the
// snapshot taken when React was called. One reaction at a time per instance;
// instances share nothing.
type Reconciler struct {
	api  ReactionAPI
	auth AuthChecker
	log  logging.Logger

	mu        sync.Mutex
	view      ReactionView
	pending   models.Reaction
	closed    bool
	listeners map[int]func(ReactionView)
	nextID    int
}

func NewReconciler(quote models.Quote, api ReactionAPI, auth AuthChecker, log logging.Logger) *Reconciler {
	return &Reconciler{
		api:       api,
		auth:      auth,
		log:       log.With("component", "reconciler", "quote_id", quote.ID.String()),
		view:      ViewOf(quote),
		listeners: make(map[int]func(ReactionView)),
	}
}

// View returns the current local state.
func (r *Reconciler) View() ReactionView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// Pending reports whether action is in flight.
func (r *Reconciler) Pending(action models.Reaction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending != models.ReactionNone && r.pending == action
}

// OnChange registers fn for every change of the view, including the
// optimistic one. The returned func unregisters it.
func (r *Reconciler) OnChange(fn func(ReactionView)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// Close marks the quote as no longer displayed. A request still in flight
// completes, but its outcome is not applied and listeners are not called.
func (r *Reconciler) Close() {
	r.mu.Lock()
	r.closed = true
	r.listeners = map[int]func(ReactionView){}
	r.mu.Unlock()
}

// React performs like or dislike. Without a signed-in user it returns
// ErrNotAuthenticated and changes nothing; while another reaction on this
// quote is in flight it returns ErrReactionInFlight. A server failure rolls
// the view back and is returned as a *client.APIError.
func (r *Reconciler) React(ctx context.Context, action models.Reaction) (ReactionView, error) {
	if !action.IsAction() {
		return r.View(), fmt.Errorf("unknown reaction %q", action)
	}
	if !r.auth.IsAuthenticated() {
		return r.View(), ErrNotAuthenticated
	}

	r.mu.Lock()
	switch {
	case r.closed:
		r.mu.Unlock()
		return r.view, ErrReconcilerClosed
	case r.pending != models.ReactionNone:
		r.mu.Unlock()
		return r.view, ErrReactionInFlight
	}
	snapshot := r.view
	r.view = Predict(snapshot, action)
	r.pending = action
	optimistic, listeners := r.view, r.listenersLocked()
	r.mu.Unlock()

	notify(listeners, optimistic)

	res, err := r.api.React(ctx, snapshot.QuoteID, action)

	r.mu.Lock()
	r.pending = models.ReactionNone
	if r.closed {
		v := r.view
		r.mu.Unlock()
		r.log.Debug(ctx, "dropping reaction result for closed view")
		return v, err
	}
	if err != nil {
		r.view = snapshot
	} else {
		r.view = Reconcile(r.view, res)
	}
	final, listeners := r.view, r.listenersLocked()
	r.mu.Unlock()

	notify(listeners, final)

	if err != nil {
		apiErr := client.AsAPIError(err)
		r.log.Error(ctx, "reaction failed, rolled back", "action", string(action), "status", apiErr.StatusCode, "error", apiErr.Message)
		return final, apiErr
	}
	return final, nil
}

func (r *Reconciler) listenersLocked() []func(ReactionView) {
	out := make([]func(ReactionView), 0, len(r.listeners))
	for _, fn := range r.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(ReactionView), v ReactionView) {
	for _, fn := range listeners {
		fn(v)
	}
}
