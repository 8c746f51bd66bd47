package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/quotekeeper/internal/client/client"
	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/client/repositories/credentials"
)

// fakeAPI implements every API slice the services use. Func fields override
// the canned results; Last* fields record arguments.
type fakeAPI struct {
	mu sync.Mutex

	LoginFn    func(ctx context.Context, creds models.Credentials) (*client.AuthResult, error)
	RegisterFn func(ctx context.Context, req models.RegisterRequest) (*client.AuthResult, error)
	MeFn       func(ctx context.Context) (*models.User, error)
	ReactFn    func(ctx context.Context, id models.ID, action models.Reaction) (*models.ReactionResult, error)

	PatchRet  models.UserPatch
	PatchErr  error
	Profile   *models.User
	ProfileEr error
	Pages     map[string]*models.QuotePage
	PageErr   error
	QuoteRet  *models.Quote
	QuoteErr  error
	DeleteErr error

	LastCreds     models.Credentials
	LastRegister  models.RegisterRequest
	LastUpdate    models.ProfileUpdate
	LastQuoteIn   models.QuoteInput
	LastListPage  int
	LastListLimit int
	Calls         map[string]int
}

func (f *fakeAPI) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Calls == nil {
		f.Calls = map[string]int{}
	}
	f.Calls[name]++
}

func (f *fakeAPI) calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *fakeAPI) Login(ctx context.Context, creds models.Credentials) (*client.AuthResult, error) {
	f.count("Login")
	f.mu.Lock()
	f.LastCreds = creds
	f.mu.Unlock()
	if f.LoginFn != nil {
		return f.LoginFn(ctx, creds)
	}
	return nil, errors.New("login not configured")
}

func (f *fakeAPI) Register(ctx context.Context, req models.RegisterRequest) (*client.AuthResult, error) {
	f.count("Register")
	f.mu.Lock()
	f.LastRegister = req
	f.mu.Unlock()
	if f.RegisterFn != nil {
		return f.RegisterFn(ctx, req)
	}
	return nil, errors.New("register not configured")
}

func (f *fakeAPI) Me(ctx context.Context) (*models.User, error) {
	f.count("Me")
	if f.MeFn != nil {
		return f.MeFn(ctx)
	}
	return nil, errors.New("me not configured")
}

func (f *fakeAPI) UpdateProfile(_ context.Context, update models.ProfileUpdate) (models.UserPatch, error) {
	f.count("UpdateProfile")
	f.LastUpdate = update
	return f.PatchRet, f.PatchErr
}

func (f *fakeAPI) UserProfile(context.Context, models.ID) (*models.User, error) {
	f.count("UserProfile")
	return f.Profile, f.ProfileEr
}

func (f *fakeAPI) ListQuotes(_ context.Context, page, limit int) (*models.QuotePage, error) {
	f.count("ListQuotes")
	f.mu.Lock()
	f.LastListPage, f.LastListLimit = page, limit
	f.mu.Unlock()
	if f.PageErr != nil {
		return nil, f.PageErr
	}
	return f.Pages["all"], nil
}

func (f *fakeAPI) QuotesByUser(_ context.Context, userID models.ID, page, limit int) (*models.QuotePage, error) {
	f.count("QuotesByUser")
	f.mu.Lock()
	f.LastListPage, f.LastListLimit = page, limit
	f.mu.Unlock()
	if f.PageErr != nil {
		return nil, f.PageErr
	}
	if p, ok := f.Pages[userID.String()]; ok {
		return p, nil
	}
	return &models.QuotePage{Page: page, Limit: limit}, nil
}

func (f *fakeAPI) GetQuote(context.Context, models.ID) (*models.Quote, error) {
	f.count("GetQuote")
	return f.QuoteRet, f.QuoteErr
}

func (f *fakeAPI) CreateQuote(_ context.Context, in models.QuoteInput) (*models.Quote, error) {
	f.count("CreateQuote")
	f.LastQuoteIn = in
	return f.QuoteRet, f.QuoteErr
}

func (f *fakeAPI) UpdateQuote(_ context.Context, _ models.ID, in models.QuoteInput) (*models.Quote, error) {
	f.count("UpdateQuote")
	f.LastQuoteIn = in
	return f.QuoteRet, f.QuoteErr
}

func (f *fakeAPI) DeleteQuote(context.Context, models.ID) error {
	f.count("DeleteQuote")
	return f.DeleteErr
}

func (f *fakeAPI) React(ctx context.Context, id models.ID, action models.Reaction) (*models.ReactionResult, error) {
	f.count("React")
	if f.ReactFn != nil {
		return f.ReactFn(ctx, id, action)
	}
	return &models.ReactionResult{}, nil
}

// authFlag is a settable AuthChecker.
type authFlag bool

func (a authFlag) IsAuthenticated() bool { return bool(a) }

// failingStore wraps a Store and fails Clear.
type failingStore struct {
	inner    credentials.Store
	clearErr error
}

func (s *failingStore) Load(ctx context.Context) (string, error) { return s.inner.Load(ctx) }
func (s *failingStore) Save(ctx context.Context, c string) error { return s.inner.Save(ctx, c) }
func (s *failingStore) Clear(ctx context.Context) error {
	_ = s.inner.Clear(ctx)
	return s.clearErr
}

func intPtr(n int) *int { return &n }

func reactionPtr(r models.Reaction) *models.Reaction { return &r }
