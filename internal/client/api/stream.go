package api

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/antonkuprin/medilink/internal/client/models"
	"github.com/antonkuprin/medilink/internal/logging"
)

const ssePrefix = "data: "

// StreamSession identifies one streaming consumption loop. Its lifecycle
// is bound to a single ChatStream or StatusSocket.
type StreamSession struct {
	SessionID string
	ChannelID string
}

// NewStreamSession mints a session for the given channel.
func NewStreamSession(channelID string) StreamSession {
	return StreamSession{SessionID: uuid.NewString(), ChannelID: channelID}
}

// ChatStream consumes a line-delimited chat event stream. The sequence is
// lazy and finite: Recv yields decodable chunks in order until a terminal
// chunk (type complete/error), the byte stream ends, or a connection error
// occurs. A stream is not resumable mid-way: callers reopen instead.
type ChatStream struct {
	session StreamSession
	resp    *http.Response
	scanner *bufio.Scanner
	log     logging.Logger
	done    bool
}

// Session returns the identity of this consumption loop.
func (s *ChatStream) Session() StreamSession {
	return s.session
}

// Recv returns the next decodable chunk. After a terminal chunk has been
// yielded, or once the underlying stream ends, Recv returns io.EOF.
// Malformed lines are logged and skipped without ending the stream.
func (s *ChatStream) Recv() (*models.ChatChunk, error) {
	if s.done {
		return nil, io.EOF
	}

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, ssePrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, ssePrefix)

		var chunk models.ChatChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			s.log.Warn(context.Background(), "skipping malformed stream line",
				"session_id", s.session.SessionID, "error", err)
			continue
		}
		if chunk.Terminal() {
			s.close()
		}
		return &chunk, nil
	}

	err := s.scanner.Err()
	s.close()
	if err != nil {
		return nil, classifyTransport(err)
	}
	return nil, io.EOF
}

// Close releases the underlying response. Safe to call more than once.
func (s *ChatStream) Close() error {
	s.close()
	return nil
}

func (s *ChatStream) close() {
	if s.done {
		return
	}
	s.done = true
	_ = s.resp.Body.Close()
}

// OpenChatStream starts a chat turn and returns the token stream of the
// reply. The request goes out as a GET with Accept: text/event-stream on
// the pipeline session; auth headers are attached the same way as for
// plain calls.
func (c *Client) OpenChatStream(ctx context.Context, session StreamSession, role Role, message string) (*ChatStream, error) {
	q := url.Values{}
	q.Set("session_id", session.SessionID)
	q.Set("message", message)

	desc := &RequestDescriptor{
		Path:         "/consultations/" + session.ChannelID + "/stream?" + q.Encode(),
		Method:       http.MethodGet,
		RequiresAuth: true,
		Role:         role,
	}

	resp, err := c.Pipeline.open(ctx, desc, "text/event-stream")
	if err != nil {
		return nil, err
	}

	return &ChatStream{
		session: session,
		resp:    resp,
		scanner: bufio.NewScanner(resp.Body),
		log:     c.log,
	}, nil
}
