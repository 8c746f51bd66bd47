package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/quotekeeper/internal/client/config"
	"github.com/dmitrijs2005/quotekeeper/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/quotekeeper/internal/logging"
)

// output collects everything printed through printlnFn and printFn.
type output struct {
	mu sync.Mutex
	b  strings.Builder
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.b.String()
}

func captureOutput(t *testing.T) *output {
	t.Helper()
	out := &output{}
	origLn, orig := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) {
		out.mu.Lock()
		defer out.mu.Unlock()
		return fmt.Fprintln(&out.b, a...)
	}
	printFn = func(a ...any) (int, error) {
		out.mu.Lock()
		defer out.mu.Unlock()
		return fmt.Fprint(&out.b, a...)
	}
	t.Cleanup(func() { printlnFn, printFn = origLn, orig })
	return out
}

// stubInputs answers every prompt (text, password, multiline) from answers
// in order. Running out of answers yields io.EOF.
func stubInputs(t *testing.T, answers ...string) {
	t.Helper()
	var mu sync.Mutex
	next := func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}

	origST, origGP, origML := getSimpleText, getPassword, getMultiline
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return next() }
	getPassword = func(*bufio.Reader, io.Writer) ([]byte, error) {
		s, err := next()
		return []byte(s), err
	}
	getMultiline = func(*bufio.Reader, string, io.Writer) (string, error) { return next() }
	t.Cleanup(func() {
		getSimpleText, getPassword, getMultiline = origST, origGP, origML
	})
}

const (
	aliceToken = "tok-alice"
	aliceJSON  = `{"id":"u1","username":"alice","email":"alice@example.com","created_at":"2024-01-01T00:00:00Z"}`
	bobQuote   = `{"id":"q1","content":"Simplicity is prerequisite for reliability.","author_id":"u2","author_username":"bob","likes_count":3,"dislikes_count":1,"created_at":"2024-02-01T00:00:00Z"}`
	aliceQuote = `{"id":"q2","content":"Make it work, make it right.","author_id":"u1","author_username":"alice","likes_count":0,"dislikes_count":0,"created_at":"2024-03-01T00:00:00Z"}`
)

// quotesAPI is an in-process fake of the quotes REST API.
type quotesAPI struct {
	mu        sync.Mutex
	revoked   bool
	failReact bool
	requests  []string
}

func (s *quotesAPI) saw(method, path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r == method+" "+path {
			return true
		}
	}
	return false
}

func (s *quotesAPI) revoke() {
	s.mu.Lock()
	s.revoked = true
	s.mu.Unlock()
}

func (s *quotesAPI) authorized(r *http.Request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.revoked && r.Header.Get("Authorization") == "Bearer "+aliceToken
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (s *quotesAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			reply(w, http.StatusBadRequest, `{"success":false,"message":"Invalid credentials"}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"data":{"user":`+aliceJSON+`,"token":"`+aliceToken+`"}}`)
	})

	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			reply(w, http.StatusUnauthorized, `{"message":"invalid token"}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"data":{"user":`+aliceJSON+`}}`)
	})

	mux.HandleFunc("GET /api/auth/profile/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "u2" {
			reply(w, http.StatusNotFound, `{"message":"User not found"}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"data":{"id":"u2","username":"bob","created_at":"2023-06-01T00:00:00Z"}}`)
	})

	mux.HandleFunc("GET /api/quotes", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `{"success":true,"data":{"quotes":[`+bobQuote+`,`+aliceQuote+`],"total":2}}`)
	})

	mux.HandleFunc("GET /api/quotes/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "u1":
			reply(w, http.StatusOK, `{"success":true,"data":[`+aliceQuote+`]}`)
		case "u2":
			reply(w, http.StatusOK, `{"success":true,"data":[`+bobQuote+`]}`)
		default:
			reply(w, http.StatusOK, `{"success":true,"data":[]}`)
		}
	})

	mux.HandleFunc("GET /api/quotes/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "q1":
			reply(w, http.StatusOK, `{"success":true,"data":`+bobQuote+`}`)
		case "q2":
			reply(w, http.StatusOK, `{"success":true,"data":`+aliceQuote+`}`)
		default:
			reply(w, http.StatusNotFound, `{"message":"Quote not found"}`)
		}
	})

	mux.HandleFunc("POST /api/quotes", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if !s.authorized(r) {
			reply(w, http.StatusUnauthorized, `{"message":"invalid token"}`)
			return
		}
		var in struct{ Content string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		body, _ := json.Marshal(map[string]any{"id": "q3", "content": in.Content, "author_id": "u1", "author_username": "alice"})
		reply(w, http.StatusCreated, `{"success":true,"data":`+string(body)+`}`)
	})

	mux.HandleFunc("POST /api/quotes/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if !s.authorized(r) {
			reply(w, http.StatusUnauthorized, `{"message":"invalid token"}`)
			return
		}
		s.mu.Lock()
		fail := s.failReact
		s.mu.Unlock()
		if fail {
			reply(w, http.StatusInternalServerError, `{"message":"Could not save reaction"}`)
			return
		}
		if r.PathValue("action") == "dislike" {
			reply(w, http.StatusOK, `{"success":true,"data":{"dislikes_count":2}}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"data":{"likes_count":4,"userReaction":"like"}}`)
	})

	mux.HandleFunc("DELETE /api/quotes/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if r.PathValue("id") != "q2" {
			reply(w, http.StatusForbidden, `{"message":"Not your quote"}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true}`)
	})

	return mux
}

func (s *quotesAPI) record(r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.mu.Unlock()
}

func testConfig(apiURL string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = apiURL
	return cfg
}

// newTestApp wires an App against a fake API. credential seeds the store.
func newTestApp(t *testing.T, api *quotesAPI, credential string) (*App, *credentials.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	store := credentials.NewMemoryStore(credential)
	a := newApp(testConfig(srv.URL+"/api"), logging.NewNopLogger(), srv.Client(), store)
	a.reader = bufio.NewReader(strings.NewReader(""))
	t.Cleanup(func() { _ = a.Close() })
	return a, store
}
