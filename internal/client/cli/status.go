package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/antonkuprin/medilink/internal/client/api"
)

// WatchStatus follows a consultation's status channel and prints every
// event until the server closes the socket. There is no automatic
// reconnect; when the socket dies the command returns and the user can
// watch again.
func (a *App) WatchStatus(ctx context.Context, channelID string) error {
	session := api.NewStreamSession(channelID)
	sock, err := a.api.OpenStatusSocket(ctx, session, a.role)
	if err != nil {
		return err
	}
	defer sock.Close()

	printlnFn("Watching channel", channelID, "(connection closes when the consultation ends)")
	for {
		msg, err := sock.Recv()
		if errors.Is(err, io.EOF) {
			printlnFn("Channel closed")
			return nil
		}
		if err != nil {
			return err
		}
		if msg.Detail != "" {
			fmt.Printf("[%s] %s: %s\n", msg.Type, msg.Status, msg.Detail)
			continue
		}
		fmt.Printf("[%s] %s\n", msg.Type, msg.Status)
	}
}
