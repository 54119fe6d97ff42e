package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) promptCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Signup prompts for an email and password and creates the account.
func (a *App) Signup(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	user, err := a.api.Signup(ctx, email, password)
	if err != nil {
		a.report("Signup failed", err)
		return err
	}

	fmt.Fprintf(a.out, "Account created: %s (id %s)\n", user.Email, user.ID)
	return nil
}

// Login prompts for credentials and keeps the session token on success.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	if err := a.api.Login(ctx, email, password); err != nil {
		a.report("Login failed", err)
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Me shows the account the current session belongs to.
func (a *App) Me(ctx context.Context) error {
	user, err := a.api.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.api.Logout()
			a.email = ""
			fmt.Fprintln(a.out, "Session expired, please log in again")
			return err
		}
		a.report("Request failed", err)
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (id %s)\n", user.Email, user.ID)
	return nil
}

// Status reports whether the server answers.
func (a *App) Status(ctx context.Context) error {
	if err := a.api.Ping(ctx); err != nil {
		a.report("Server is not reachable", err)
		return err
	}
	fmt.Fprintf(a.out, "Server %s is up\n", a.config.ServerURL)
	return nil
}

// Logout drops the session token. Tokens are not revoked server-side.
func (a *App) Logout(context.Context) error {
	a.api.Logout()
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) report(what string, err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		fmt.Fprintf(a.out, "%s: %s\n", what, apiErr.Message)
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintf(a.out, "%s: server unavailable\n", what)
	default:
		fmt.Fprintf(a.out, "%s: %v\n", what, err)
	}
}
