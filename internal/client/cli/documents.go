package cli

import (
	"context"
	"fmt"
	"os"
)

// ListDocuments prints the caller's uploaded documents.
func (a *App) ListDocuments(ctx context.Context) error {
	items, err := a.documents.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printlnFn("No documents")
		return nil
	}
	for _, doc := range items {
		fmt.Printf("%s  %-30s  %8d bytes  %s\n",
			doc.ID, doc.FileName, doc.Size, doc.UploadedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// UploadDocument prompts for a local file and a description, then uploads
// the file while printing progress.
func (a *App) UploadDocument(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "File path", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	progress := make(chan float64, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for frac := range progress {
			fmt.Printf("\r%3.0f%%", frac*100)
		}
		fmt.Println()
	}()

	doc, uerr := a.documents.Upload(ctx, path, content, description, progress)
	close(progress)
	<-done

	if uerr != nil {
		return uerr
	}
	printlnFn("Uploaded:", doc.ID)
	return nil
}
