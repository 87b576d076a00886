package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mailgate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (string, []byte, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return username, password, nil
}

// Register creates an account and logs it in.
func (a *App) Register(ctx context.Context) error {
	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.Register(ctx, username, string(password)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered and logged in as %s\n", a.api.Username())
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.Login(ctx, username, string(password)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", a.api.Username())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.Logout(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Logged out")
	return nil
}
