package cli

import (
	"context"
	"fmt"
)

// ListConsultations prints the caller's consultations and their channels.
func (a *App) ListConsultations(ctx context.Context) error {
	items, err := a.consultations.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printlnFn("No consultations")
		return nil
	}
	for _, con := range items {
		state := "open"
		if !con.ClosedAt.IsZero() {
			state = "closed"
		}
		fmt.Printf("%s  channel %s  started %s  %s\n",
			con.ID, con.ChannelID, con.StartedAt.Format("2006-01-02 15:04"), state)
	}
	return nil
}

// OpenConsultation starts a new consultation and prints its channel id,
// which the chat and watch commands take as argument.
func (a *App) OpenConsultation(ctx context.Context) error {
	con, err := a.consultations.Open(ctx)
	if err != nil {
		return err
	}
	printlnFn("Consultation opened, channel:", con.ChannelID)
	return nil
}
