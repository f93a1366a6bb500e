package cli

import (
	"context"
	"os"

	"github.com/antonkuprin/medilink/internal/client/api"
	"github.com/antonkuprin/medilink/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing; they point at the interactive input helpers.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates against the backend.
// Patients that do not exist yet are provisioned automatically on the
// next authenticated call; doctors must have an account already.
func (a *App) Login(ctx context.Context, asDoctor bool) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	role := api.RolePatient
	if asDoctor {
		role = api.RoleDoctor
	}

	if _, err := a.api.Auth.Login(ctx, role, email, string(password)); err != nil {
		return err
	}

	a.userName = email
	a.setRole(role)
	printlnFn("Logged in as", email)
	return nil
}

// Logout forgets credentials and wipes stored tokens.
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Auth.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	a.setRole(api.RolePatient)
	printlnFn("Logged out")
	return nil
}

// SetEndpoint switches the backend base URL. Stored tokens belong to the
// previous endpoint and are wiped, so the user has to log in again.
func (a *App) SetEndpoint(ctx context.Context, baseURL string) error {
	if err := a.api.SetEndpoint(ctx, baseURL); err != nil {
		return err
	}
	a.userName = ""
	printlnFn("Endpoint set to", baseURL)
	return nil
}
