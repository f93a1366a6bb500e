package cli

import (
	"context"
	"fmt"
	"os"
)

// ListAppointments prints the caller's appointments.
func (a *App) ListAppointments(ctx context.Context) error {
	items, err := a.appointments.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printlnFn("No appointments")
		return nil
	}
	for _, apt := range items {
		fmt.Printf("%s  %s  %-10s  %s\n",
			apt.ID, apt.ScheduledAt.Format("2006-01-02 15:04"), apt.Status, apt.Reason)
	}
	return nil
}

// BookAppointment prompts for the slot details and books it.
func (a *App) BookAppointment(ctx context.Context) error {
	doctorID, err := getSimpleText(a.reader, "Doctor id", os.Stdout)
	if err != nil {
		return err
	}
	when, err := getSimpleText(a.reader, "Scheduled at (RFC3339, e.g. 2026-09-01T10:00:00Z)", os.Stdout)
	if err != nil {
		return err
	}
	reason, err := getSimpleText(a.reader, "Reason", os.Stdout)
	if err != nil {
		return err
	}

	apt, err := a.appointments.Book(ctx, doctorID, when, reason)
	if err != nil {
		return err
	}
	printlnFn("Booked:", apt.ID)
	return nil
}

// CancelAppointment cancels the appointment with the given id.
func (a *App) CancelAppointment(ctx context.Context, id string) error {
	if err := a.appointments.Cancel(ctx, id); err != nil {
		return err
	}
	printlnFn("Cancelled:", id)
	return nil
}
