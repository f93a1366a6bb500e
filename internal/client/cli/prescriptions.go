package cli

import (
	"context"
	"fmt"
	"os"
)

// ListPrescriptions prints the caller's prescriptions.
func (a *App) ListPrescriptions(ctx context.Context) error {
	items, err := a.prescriptions.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printlnFn("No prescriptions")
		return nil
	}
	for _, rx := range items {
		fmt.Printf("%s  %-20s  %-10s  issued %s\n",
			rx.ID, rx.Medication, rx.Dosage, rx.IssuedAt.Format("2006-01-02"))
	}
	return nil
}

// IssuePrescription prompts for the prescription details and creates it.
// The backend only accepts this from a doctor token.
func (a *App) IssuePrescription(ctx context.Context) error {
	patientID, err := getSimpleText(a.reader, "Patient id", os.Stdout)
	if err != nil {
		return err
	}
	medication, err := getSimpleText(a.reader, "Medication", os.Stdout)
	if err != nil {
		return err
	}
	dosage, err := getSimpleText(a.reader, "Dosage", os.Stdout)
	if err != nil {
		return err
	}

	rx, err := a.prescriptions.Issue(ctx, patientID, medication, dosage)
	if err != nil {
		return err
	}
	printlnFn("Issued:", rx.ID)
	return nil
}
