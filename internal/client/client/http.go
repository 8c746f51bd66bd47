package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/quotekeeper/internal/common"
	"github.com/dmitrijs2005/quotekeeper/internal/logging"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const maxBodySize = 4 << 20

// HTTPClientConfig holds the settings of HTTPClient.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// StrictDecode turns unexpected listing shapes into ErrUnexpectedShape
	// instead of an empty page.
	StrictDecode bool
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	cfg        HTTPClientConfig
	httpClient *http.Client
	store      credentials.Store
	log        logging.Logger

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context)
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds an HTTPClient. A nil httpClient gets a fresh
// *http.Client with cfg.Timeout.
func NewHTTPClient(cfg HTTPClientConfig, httpClient *http.Client, store credentials.Store, log logging.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &HTTPClient{
		cfg:        cfg,
		httpClient: httpClient,
		store:      store,
		log:        log.With("component", "http_client"),
	}
}

// OnUnauthorized sets the hook fired after a 401 cleared the credential.
func (c *HTTPClient) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, body any) (*AuthResult, error) {
	payload, status, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}

	token := payload.Get("token")
	user := payload.Get("user")
	if token.Type != gjson.String || token.Str == "" || !user.IsObject() {
		c.log.Warn(ctx, "auth response without user and token", "path", path)
		return nil, newAPIError(ErrInvalidResponse, status, MsgInvalidFormat)
	}

	res := &AuthResult{Token: token.Str}
	if err := decodeInto(user, status, &res.User); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	return c.user(ctx, "/auth/me")
}

func (c *HTTPClient) UserProfile(ctx context.Context, userID models.ID) (*models.User, error) {
	return c.user(ctx, "/auth/profile/"+url.PathEscape(userID.String()))
}

func (c *HTTPClient) user(ctx context.Context, path string) (*models.User, error) {
	payload, status, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	payload = userPayload(payload)
	if !payload.IsObject() {
		return nil, newAPIError(ErrInvalidResponse, status, MsgInvalidFormat)
	}

	var u models.User
	if err := decodeInto(payload, status, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.UserPatch, error) {
	payload, status, err := c.do(ctx, http.MethodPut, "/auth/profile", nil, update)
	if err != nil {
		return models.UserPatch{}, err
	}
	payload = userPayload(payload)
	if !payload.IsObject() {
		return models.UserPatch{}, newAPIError(ErrInvalidResponse, status, MsgInvalidFormat)
	}

	patch, err := models.PatchFrom([]byte(payload.Raw))
	if err != nil {
		return models.UserPatch{}, &APIError{Message: MsgInvalidFormat, StatusCode: status, Err: fmt.Errorf("%w: %w", ErrInvalidResponse, err)}
	}
	return patch, nil
}

func (c *HTTPClient) ListQuotes(ctx context.Context, page, limit int) (*models.QuotePage, error) {
	return c.quotePage(ctx, "/quotes", page, limit)
}

func (c *HTTPClient) QuotesByUser(ctx context.Context, userID models.ID, page, limit int) (*models.QuotePage, error) {
	return c.quotePage(ctx, "/quotes/user/"+url.PathEscape(userID.String()), page, limit)
}

func (c *HTTPClient) quotePage(ctx context.Context, path string, page, limit int) (*models.QuotePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	payload, status, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}

	result := &models.QuotePage{Page: page, Limit: limit, Quotes: []models.Quote{}}

	list, total, ok := quoteList(payload)
	if !ok {
		if c.cfg.StrictDecode {
			return nil, newAPIError(ErrUnexpectedShape, status, MsgUnexpectedShape)
		}
		c.log.Warn(ctx, "unexpected quote list shape, showing empty page", "path", path, "body", truncate(payload.Raw, 200))
		return result, nil
	}

	if err := decodeInto(list, status, &result.Quotes); err != nil {
		return nil, err
	}
	result.Total = total
	return result, nil
}

func (c *HTTPClient) GetQuote(ctx context.Context, id models.ID) (*models.Quote, error) {
	return c.quote(ctx, http.MethodGet, "/quotes/"+url.PathEscape(id.String()), nil)
}

func (c *HTTPClient) CreateQuote(ctx context.Context, in models.QuoteInput) (*models.Quote, error) {
	return c.quote(ctx, http.MethodPost, "/quotes", in)
}

func (c *HTTPClient) UpdateQuote(ctx context.Context, id models.ID, in models.QuoteInput) (*models.Quote, error) {
	return c.quote(ctx, http.MethodPut, "/quotes/"+url.PathEscape(id.String()), in)
}

func (c *HTTPClient) quote(ctx context.Context, method, path string, body any) (*models.Quote, error) {
	payload, status, err := c.do(ctx, method, path, nil, body)
	if err != nil {
		return nil, err
	}
	if q := payload.Get("quote"); q.IsObject() {
		payload = q
	}
	if !payload.IsObject() {
		return nil, newAPIError(ErrInvalidResponse, status, MsgInvalidFormat)
	}

	var q models.Quote
	if err := decodeInto(payload, status, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *HTTPClient) DeleteQuote(ctx context.Context, id models.ID) error {
	_, _, err := c.do(ctx, http.MethodDelete, "/quotes/"+url.PathEscape(id.String()), nil, nil)
	return err
}

// React posts a like or dislike. Fields the server leaves out stay nil in
// the result.
func (c *HTTPClient) React(ctx context.Context, id models.ID, action models.Reaction) (*models.ReactionResult, error) {
	if !action.IsAction() {
		return nil, ValidationError(fmt.Errorf("unknown reaction %q", action))
	}

	payload, status, err := c.do(ctx, http.MethodPost, "/quotes/"+url.PathEscape(id.String())+"/"+string(action), nil, nil)
	if err != nil {
		return nil, err
	}

	res := &models.ReactionResult{}
	if !payload.IsObject() {
		return res, nil
	}
	if err := decodeInto(payload, status, res); err != nil {
		return nil, err
	}
	return res, nil
}

// do sends one request and returns the unwrapped payload of a 2xx response.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any) (gjson.Result, int, error) {
	requestID := uuid.NewString()
	log := c.log.With("request_id", requestID, "method", method, "path", path)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	target := c.cfg.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return gjson.Result{}, 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)

	credential, err := c.store.Load(ctx)
	if err != nil {
		log.Warn(ctx, "credential unavailable, sending anonymously", "error", err)
	}
	if credential != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+credential)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error(ctx, "request failed", "error", err)
		return gjson.Result{}, 0, &APIError{Message: MsgNetwork, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Error(ctx, "read response failed", "status", resp.StatusCode, "error", err)
		return gjson.Result{}, resp.StatusCode, &APIError{Message: MsgNetwork, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	log.Debug(ctx, "response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if apiErr := c.statusError(ctx, resp.StatusCode, data); apiErr != nil {
		log.Error(ctx, "request rejected", "status", apiErr.StatusCode, "message", apiErr.Message)
		return gjson.Result{}, resp.StatusCode, apiErr
	}

	payload, err := unwrap(data, resp.StatusCode)
	if err != nil {
		log.Error(ctx, "bad response body", "status", resp.StatusCode, "error", err)
		return gjson.Result{}, resp.StatusCode, err
	}
	return payload, resp.StatusCode, nil
}

// statusError maps non-2xx responses. 401 clears the credential first.
func (c *HTTPClient) statusError(ctx context.Context, status int, body []byte) *APIError {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		c.expire(ctx)
		return newAPIError(ErrUnauthorized, status, MsgUnauthorized)
	case status == http.StatusForbidden:
		return newAPIError(ErrForbidden, status, MsgForbidden)
	case status == http.StatusNotFound:
		return newAPIError(ErrNotFound, status, errorMessage(body, status))
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return newAPIError(ErrValidation, status, errorMessage(body, status))
	default:
		return newAPIError(ErrRequestFailed, status, errorMessage(body, status))
	}
}

func (c *HTTPClient) expire(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.log.Error(ctx, "clear credential after 401", "error", err)
	}

	c.mu.RLock()
	hook := c.onUnauthorized
	c.mu.RUnlock()

	if hook != nil {
		hook(ctx)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
