package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tasksync/internal/client/client"
	"github.com/dmitrijs2005/tasksync/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (string, string, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", "", err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(password)

	return userName, string(password), nil
}

// Register prompts for a username and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	err = a.sync.Register(ctx, userName, password)
	switch {
	case err == nil:
		fmt.Fprintln(a.out, "Success!")
	case errors.Is(err, common.ErrConflict):
		fmt.Fprintln(a.out, "Username is taken")
	case errors.Is(err, common.ErrValidation):
		fmt.Fprintln(a.out, "Username and password must not be empty")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}

// Login prompts for credentials, then shows the user's list. If the server
// cannot be reached the cached list is shown in offline mode.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	err = a.sync.Login(ctx, userName, password)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "Logged in (%s)\n", a.mode())
		a.printTasks(a.sync.Current())
	case errors.Is(err, common.ErrUnauthenticated):
		fmt.Fprintln(a.out, "Invalid username or password")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable and no cached list for this user")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}

// Logout ends the session and forgets the cached list.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sync.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
