package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) List(ctx context.Context) error { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) Add(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "add")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Done(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "done")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Sync(ctx context.Context) error { f.calls = append(f.calls, "sync"); return nil }
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		printed = append(printed, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &printed
}

func lines(s ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(s, "\n") + "\n"))
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, lines(
		"help",
		"login",
		"help",
		"add buy some milk",
		"list",
		"done 3",
		"sync",
		"logout",
		"exit",
	))

	assert.Equal(t, []string{"login", "add", "list", "done", "sync", "logout"}, exec.calls)
	assert.Equal(t, [][]string{{"buy", "some", "milk"}, {"3"}}, exec.args)
}

func TestRunREPL_RequiresLogin(t *testing.T) {
	out := silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, lines("add x", "list", "quit"))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Please login first")
}

func TestRunREPL_UnknownAndEOF(t *testing.T) {
	out := silencePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("\nfoobar")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Unknown command: foobar")
}
