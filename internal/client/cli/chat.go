package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/antonkuprin/medilink/internal/client/api"
	"github.com/antonkuprin/medilink/internal/client/models"
)

// Chat sends one message on the consultation channel and prints the
// streamed reply token by token. A fresh stream session is minted per
// message; a broken stream is not resumed, the user just sends again.
func (a *App) Chat(ctx context.Context, channelID string) error {
	message, err := getSimpleText(a.reader, "Message", os.Stdout)
	if err != nil {
		return err
	}
	if message == "" {
		return nil
	}

	session := api.NewStreamSession(channelID)
	stream, err := a.api.OpenChatStream(ctx, session, a.role, message)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			fmt.Println()
			return err
		}

		switch chunk.Type {
		case models.ChunkTypeToken:
			fmt.Print(chunk.Content)
		case models.ChunkTypeError:
			fmt.Println()
			printlnFn("Stream error:", chunk.Detail)
		}
	}
}
