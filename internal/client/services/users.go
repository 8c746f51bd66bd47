package services

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/quotekeeper/internal/client/client"
	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/logging"
	"golang.org/x/sync/errgroup"
)

// directoryLimit is how many recent quotes the authors directory and profile
// statistics are computed from.
const directoryLimit = 100

const unknownUser = "Unknown User"

// UserAPI is the user part of the API.
type UserAPI interface {
	UserProfile(ctx context.Context, userID models.ID) (*models.User, error)
	QuotesByUser(ctx context.Context, userID models.ID, page, limit int) (*models.QuotePage, error)
	ListQuotes(ctx context.Context, page, limit int) (*models.QuotePage, error)
}

// ProfilePage is everything shown on a user's profile.
type ProfilePage struct {
	User  models.User
	Stats *models.UserStats // nil when the user's quotes could not be loaded
}

// Directory lists the authors seen in recent quotes.
type Directory struct {
	Authors []models.AuthorSummary
	Totals  models.UserStats
}

type UserService struct {
	api UserAPI
	log logging.Logger
}

func NewUserService(api UserAPI, log logging.Logger) *UserService {
	return &UserService{api: api, log: log.With("component", "users")}
}

// Profile fetches a user's profile. When the profile endpoint fails the
// user is reconstructed from their most recent quote.
func (s *UserService) Profile(ctx context.Context, userID models.ID) (*models.User, error) {
	u, err := s.api.UserProfile(ctx, userID)
	if err == nil && u != nil {
		if u.ID == "" {
			u.ID = userID
		}
		return u, nil
	}
	if ctx.Err() != nil {
		return nil, client.AsAPIError(ctx.Err())
	}

	s.log.Warn(ctx, "profile endpoint failed, falling back to quotes", "user_id", userID.String(), "error", err)

	page, qerr := s.api.QuotesByUser(ctx, userID, 1, 1)
	if qerr != nil || len(page.Quotes) == 0 {
		if qerr != nil {
			s.log.Error(ctx, "profile fallback failed", "user_id", userID.String(), "error", qerr)
		}
		return nil, notFoundOr(err)
	}

	q := page.Quotes[0]
	return &models.User{
		ID:        userID,
		Username:  firstNonEmpty(q.AuthorUsername, unknownUser),
		CreatedAt: q.CreatedAt,
	}, nil
}

// ProfilePage loads the profile and the user's quotes concurrently. Only a
// missing profile fails the page; statistics are optional.
func (s *UserService) ProfilePage(ctx context.Context, userID models.ID) (*ProfilePage, error) {
	g, gctx := errgroup.WithContext(ctx)

	var user *models.User
	var stats *models.UserStats

	g.Go(func() error {
		u, err := s.Profile(gctx, userID)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	g.Go(func() error {
		page, err := s.api.QuotesByUser(gctx, userID, 1, directoryLimit)
		if err != nil {
			s.log.Warn(gctx, "user stats unavailable", "user_id", userID.String(), "error", err)
			return nil
		}
		st := models.StatsFromQuotes(page.Quotes)
		stats = &st
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, client.AsAPIError(err)
	}

	if stats != nil && user.QuoteCount == 0 {
		user.QuoteCount = stats.QuoteCount
		user.TotalLikes = stats.TotalLikes
		user.TotalDislikes = stats.TotalDislikes
	}
	return &ProfilePage{User: *user, Stats: stats}, nil
}

// Directory reduces recent quotes per author. Quotes without an author id or
// name are skipped. Authors are sorted by name.
func (s *UserService) Directory(ctx context.Context) (*Directory, error) {
	page, err := s.api.ListQuotes(ctx, 1, directoryLimit)
	if err != nil {
		apiErr := client.AsAPIError(err)
		s.log.Error(ctx, "load authors directory", "status", apiErr.StatusCode, "error", apiErr.Message)
		return nil, apiErr
	}

	byID := make(map[models.ID]*models.AuthorSummary)
	for _, q := range page.Quotes {
		if q.AuthorID == "" || q.AuthorUsername == "" {
			continue
		}
		a, ok := byID[q.AuthorID]
		if !ok {
			a = &models.AuthorSummary{ID: q.AuthorID, Username: q.AuthorUsername, FirstSeen: q.CreatedAt}
			byID[q.AuthorID] = a
		}
		a.Stats.QuoteCount++
		a.Stats.TotalLikes += q.LikesCount
		a.Stats.TotalDislikes += q.DislikesCount
		if !q.CreatedAt.IsZero() && (a.FirstSeen.IsZero() || q.CreatedAt.Before(a.FirstSeen)) {
			a.FirstSeen = q.CreatedAt
		}
	}

	dir := &Directory{Authors: make([]models.AuthorSummary, 0, len(byID))}
	for _, a := range byID {
		dir.Authors = append(dir.Authors, *a)
		dir.Totals.QuoteCount += a.Stats.QuoteCount
		dir.Totals.TotalLikes += a.Stats.TotalLikes
		dir.Totals.TotalDislikes += a.Stats.TotalDislikes
	}
	sort.Slice(dir.Authors, func(i, j int) bool {
		li, lj := strings.ToLower(dir.Authors[i].Username), strings.ToLower(dir.Authors[j].Username)
		if li != lj {
			return li < lj
		}
		return dir.Authors[i].ID < dir.Authors[j].ID
	})
	return dir, nil
}

func notFoundOr(err error) error {
	apiErr := client.AsAPIError(err)
	if errors.Is(apiErr, client.ErrUnauthorized) {
		return apiErr
	}
	return &client.APIError{Message: "User not found", StatusCode: http.StatusNotFound, Err: client.ErrNotFound}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
