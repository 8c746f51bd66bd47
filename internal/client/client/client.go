package client

import (
	"context"

	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
)

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	User  models.User
	Token string
}

// Client is the quotes REST API as seen by the services.
type Client interface {
	Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, creds models.Credentials) (*AuthResult, error)
	Me(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.UserPatch, error)
	UserProfile(ctx context.Context, userID models.ID) (*models.User, error)

	ListQuotes(ctx context.Context, page, limit int) (*models.QuotePage, error)
	QuotesByUser(ctx context.Context, userID models.ID, page, limit int) (*models.QuotePage, error)
	GetQuote(ctx context.Context, id models.ID) (*models.Quote, error)
	CreateQuote(ctx context.Context, in models.QuoteInput) (*models.Quote, error)
	UpdateQuote(ctx context.Context, id models.ID, in models.QuoteInput) (*models.Quote, error)
	DeleteQuote(ctx context.Context, id models.ID) error

	React(ctx context.Context, id models.ID, action models.Reaction) (*models.ReactionResult, error)
}
