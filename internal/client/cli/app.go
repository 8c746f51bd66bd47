package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/quotekeeper/internal/client/client"
	"github.com/dmitrijs2005/quotekeeper/internal/client/config"
	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/dmitrijs2005/quotekeeper/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/quotekeeper/internal/client/services"
	"github.com/dmitrijs2005/quotekeeper/internal/logging"
)

// sessionService is the part of services.SessionManager the CLI uses.
type sessionService interface {
	Session() services.Session
	IsAuthenticated() bool
	Subscribe(fn func(services.Session)) func()
	Initialize(ctx context.Context)
	Login(ctx context.Context, creds models.Credentials) error
	Register(ctx context.Context, req models.RegisterRequest) error
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) error
	Refresh(ctx context.Context) error
	ClearError()
}

type quoteService interface {
	List(ctx context.Context, page, limit int) (*models.QuotePage, error)
	ListByUser(ctx context.Context, userID models.ID, page, limit int) (*models.QuotePage, error)
	Get(ctx context.Context, id models.ID) (*models.Quote, error)
	Create(ctx context.Context, content string) (*models.Quote, error)
	Update(ctx context.Context, id models.ID, content string) (*models.Quote, error)
	Delete(ctx context.Context, id models.ID) error
}

type userService interface {
	ProfilePage(ctx context.Context, userID models.ID) (*services.ProfilePage, error)
	Directory(ctx context.Context) (*services.Directory, error)
}

// App is the quotes CLI: configuration, services and the quotes currently
// on screen.
type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	session   sessionService
	quotes    quoteService
	users     userService
	reactions services.ReactionAPI
	reader    *bufio.Reader

	mu   sync.Mutex
	view *listing
}

// NewApp opens the local store and builds the services for cfg.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logging.New(logging.Backend(cfg.LogBackend), cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, cfg.StorePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", cfg.StorePath, "error", err)
		return nil, err
	}

	store := credentials.NewSQLiteStore(db, cfg.CredentialSecret)
	a := newApp(cfg, log, nil, store)
	a.db = db
	return a, nil
}

// newApp wires the REST client and services around store. A nil httpClient
// gets a default one.
func newApp(cfg *config.Config, log logging.Logger, httpClient *http.Client, store credentials.Store) *App {
	api := client.NewHTTPClient(client.HTTPClientConfig{
		BaseURL:      cfg.APIBaseURL,
		Timeout:      cfg.RequestTimeout,
		StrictDecode: cfg.StrictDecode,
	}, httpClient, store, log)

	sm := services.NewSessionManager(api, store, log)
	api.OnUnauthorized(sm.Expire)

	return &App{
		config:    cfg,
		log:       log,
		session:   sm,
		quotes:    services.NewQuoteService(api, cfg.PageSize, log),
		users:     services.NewUserService(api, log),
		reactions: api,
		reader:    bufio.NewReader(os.Stdin),
	}
}

// Close drops the displayed quotes and closes the local store.
func (a *App) Close() error {
	a.setView(nil)
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Root restores the session, starts the session watcher and runs the REPL
// until the user exits or ctx is cancelled.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the quotes CLI (type 'help' for commands)")

	a.session.Initialize(ctx)
	if s := a.session.Session(); s.Status == services.StatusAuthenticated {
		printlnFn(fmt.Sprintf("Signed in as %s", s.User.Username))
	} else if s.LastError != "" {
		printlnFn(renderNotice(s.LastError))
		a.session.ClearError()
	}

	stopStatus := a.watchStatus()
	defer stopStatus()

	wctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartSessionWatcher(wctx, a.config.SessionCheckInterval)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// getStatus renders the prompt status: the signed-in username or "guest".
func (a *App) getStatus() string {
	s := a.session.Session()
	switch s.Status {
	case services.StatusAuthenticated:
		return "(" + s.User.Username + ")"
	case services.StatusAuthenticating:
		return "(...)"
	default:
		return "(guest)"
	}
}

// currentUserID returns the signed-in user's id, or "".
func (a *App) currentUserID() models.ID {
	s := a.session.Session()
	if s.User == nil {
		return ""
	}
	return s.User.ID
}
