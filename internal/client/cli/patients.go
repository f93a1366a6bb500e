package cli

import (
	"context"
	"fmt"
)

// Me prints the current patient profile.
func (a *App) Me(ctx context.Context) error {
	p, err := a.patients.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\nborn %s\n", p.FullName, p.Email, p.BirthDate)
	return nil
}
