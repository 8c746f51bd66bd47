package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/quotekeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	err      error

	calls []string
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	return f.record("register")
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(context.Context) error      { return f.record("whoami") }
func (f *fakeExec) EditProfile(context.Context) error { return f.record("editprofile") }
func (f *fakeExec) Refresh(context.Context) error     { return f.record("refresh") }
func (f *fakeExec) List(_ context.Context, page int) error {
	return f.record("list " + strings.Repeat("+", page))
}
func (f *fakeExec) More(context.Context) error { return f.record("more") }
func (f *fakeExec) Show(_ context.Context, id models.ID) error {
	return f.record("show " + id.String())
}
func (f *fakeExec) Mine(context.Context) error { return f.record("mine") }
func (f *fakeExec) UserQuotes(_ context.Context, id models.ID) error {
	return f.record("user " + id.String())
}
func (f *fakeExec) Profile(_ context.Context, id models.ID) error {
	return f.record("profile " + id.String())
}
func (f *fakeExec) Users(context.Context) error { return f.record("users") }
func (f *fakeExec) Add(context.Context) error   { return f.record("add") }
func (f *fakeExec) Edit(_ context.Context, id models.ID) error {
	return f.record("edit " + id.String())
}
func (f *fakeExec) Delete(_ context.Context, id models.ID) error {
	return f.record("delete " + id.String())
}
func (f *fakeExec) React(_ context.Context, id models.ID, action models.Reaction) error {
	return f.record(action.String() + " " + id.String())
}

func lines(l ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(l, "\n") + "\n"))
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := captureOutput(t)
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "(guest)" }, lines(
		"help",
		"like q1",
		"login",
		"help",
		"l",
		"list 3",
		"more",
		"show q1",
		"user u2",
		"profile u2",
		"users",
		"mine",
		"add",
		"edit q2",
		"delete q2",
		"LIKE q1",
		"dislike q1",
		"editprofile",
		"whoami",
		"refresh",
		"logout",
		"add",
		"exit",
		"list",
	))

	assert.Equal(t, []string{
		"login", "list +", "list +++", "more", "show q1", "user u2", "profile u2", "users",
		"mine", "add", "edit q2", "delete q2", "like q1", "dislike q1",
		"editprofile", "whoami", "refresh", "logout",
	}, exec.calls)

	text := out.String()
	assert.Equal(t, 2, strings.Count(text, msgAuthRequired), "like before login, add after logout")
	assert.Contains(t, text, "Available commands: register, login")
	assert.Contains(t, text, "editprofile, whoami")
	assert.Contains(t, text, "Bye!")
	assert.Contains(t, text, "quotes (guest)> ")
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := captureOutput(t)
	exec := &fakeExec{loggedIn: true}

	runREPL(context.Background(), exec, func() string { return "" }, lines(
		"show",
		"like",
		"list abc",
		"list 0",
		"",
		"foobar",
		"quit",
	))

	assert.Empty(t, exec.calls)
	text := out.String()
	assert.Contains(t, text, "Usage: show <id>")
	assert.Contains(t, text, "Usage: like <id>")
	assert.Equal(t, 2, strings.Count(text, "Usage: list [page]"))
	assert.Contains(t, text, "Unknown command: foobar")
}

func TestRunREPL_PrintsHandlerErrors(t *testing.T) {
	out := captureOutput(t)
	exec := &fakeExec{loggedIn: true, err: errors.New("boom")}

	runREPL(context.Background(), exec, func() string { return "" }, lines("users", "users"))

	assert.Equal(t, []string{"users", "users"}, exec.calls, "loop continues after an error")
	assert.Equal(t, 2, strings.Count(out.String(), "Error: boom"))
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("users")))
	assert.Equal(t, []string{"users"}, exec.calls, "last line without newline still runs")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, lines("users"))
	assert.Empty(t, exec.calls)
}
