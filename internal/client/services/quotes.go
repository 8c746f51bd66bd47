package services

import (
	"context"

	"github.com/dmitrijs2005/quotekeeper/internal/client/client"
	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/logging"
)

// DefaultPageSize matches the listing size of the web views.
const DefaultPageSize = 10

// QuoteAPI is the quote part of the API.
type QuoteAPI interface {
	ListQuotes(ctx context.Context, page, limit int) (*models.QuotePage, error)
	QuotesByUser(ctx context.Context, userID models.ID, page, limit int) (*models.QuotePage, error)
	GetQuote(ctx context.Context, id models.ID) (*models.Quote, error)
	CreateQuote(ctx context.Context, in models.QuoteInput) (*models.Quote, error)
	UpdateQuote(ctx context.Context, id models.ID, in models.QuoteInput) (*models.Quote, error)
	DeleteQuote(ctx context.Context, id models.ID) error
}

// QuoteService reads and writes quotes. Content is length-checked before any
// request goes out.
type QuoteService struct {
	api      QuoteAPI
	pageSize int
	log      logging.Logger
}

func NewQuoteService(api QuoteAPI, pageSize int, log logging.Logger) *QuoteService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &QuoteService{api: api, pageSize: pageSize, log: log.With("component", "quotes")}
}

// List returns one page of all quotes. page starts at 1; limit <= 0 means
// the configured page size.
func (s *QuoteService) List(ctx context.Context, page, limit int) (*models.QuotePage, error) {
	page, limit = s.normalize(page, limit)
	p, err := s.api.ListQuotes(ctx, page, limit)
	return p, s.failure(ctx, "list quotes", err)
}

// ListByUser returns one page of a single author's quotes.
func (s *QuoteService) ListByUser(ctx context.Context, userID models.ID, page, limit int) (*models.QuotePage, error) {
	page, limit = s.normalize(page, limit)
	p, err := s.api.QuotesByUser(ctx, userID, page, limit)
	return p, s.failure(ctx, "list user quotes", err)
}

func (s *QuoteService) Get(ctx context.Context, id models.ID) (*models.Quote, error) {
	q, err := s.api.GetQuote(ctx, id)
	return q, s.failure(ctx, "get quote", err)
}

func (s *QuoteService) Create(ctx context.Context, content string) (*models.Quote, error) {
	in := models.QuoteInput{Content: content}
	if err := models.Validate(in); err != nil {
		return nil, client.ValidationError(err)
	}
	q, err := s.api.CreateQuote(ctx, in)
	return q, s.failure(ctx, "create quote", err)
}

func (s *QuoteService) Update(ctx context.Context, id models.ID, content string) (*models.Quote, error) {
	in := models.QuoteInput{Content: content}
	if err := models.Validate(in); err != nil {
		return nil, client.ValidationError(err)
	}
	q, err := s.api.UpdateQuote(ctx, id, in)
	return q, s.failure(ctx, "update quote", err)
}

// Delete removes a quote. A 403 (not the owner) comes back as
// client.ErrForbidden and leaves the session alone.
func (s *QuoteService) Delete(ctx context.Context, id models.ID) error {
	return s.failure(ctx, "delete quote", s.api.DeleteQuote(ctx, id))
}

func (s *QuoteService) PageSize() int {
	return s.pageSize
}

func (s *QuoteService) normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	return page, limit
}

// failure logs err and returns it as a *client.APIError, or nil.
func (s *QuoteService) failure(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	apiErr := client.AsAPIError(err)
	s.log.Error(ctx, op+" failed", "status", apiErr.StatusCode, "error", apiErr.Message)
	return apiErr
}
