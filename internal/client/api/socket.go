package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/antonkuprin/medilink/internal/client/models"
	"github.com/antonkuprin/medilink/internal/common"
	"github.com/antonkuprin/medilink/internal/logging"
)

// StatusSocket is the persistent per-session status channel. One socket
// per chat session; the loop ends on the first receive error and there is
// no automatic reconnect. Callers must Close the socket when abandoning
// the loop, otherwise the underlying transport stays open.
type StatusSocket struct {
	session StreamSession
	conn    *websocket.Conn
	log     logging.Logger
}

// Session returns the identity of this consumption loop.
func (s *StatusSocket) Session() StreamSession {
	return s.session
}

// Recv returns the next status message. Binary frames are ignored;
// undecodable text frames are logged and skipped. A normal close yields
// io.EOF, any other receive error is classified and returned.
func (s *StatusSocket) Recv() (*models.StatusMessage, error) {
	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, classifyTransport(err)
		}
		if mt != websocket.TextMessage {
			continue
		}

		var msg models.StatusMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Warn(context.Background(), "skipping malformed status frame",
				"session_id", s.session.SessionID, "error", err)
			continue
		}
		return &msg, nil
	}
}

// Close closes the underlying connection.
func (s *StatusSocket) Close() error {
	return s.conn.Close()
}

// OpenStatusSocket dials the status channel of a chat session. The http(s)
// base URL is rewritten to ws(s); the bearer token rides in the handshake
// headers.
func (c *Client) OpenStatusSocket(ctx context.Context, session StreamSession, role Role) (*StatusSocket, error) {
	tok, err := c.Auth.EnsureAuthenticated(ctx, role)
	if err != nil {
		return nil, err
	}

	target, err := c.socketURL("/consultations/" + session.ChannelID + "/status")
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set(common.AuthorizationHeaderName, "Bearer "+tok.AccessToken)

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HealthCheckTimeout}
	conn, resp, err := dialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil {
			return nil, serverErrorFrom(resp.StatusCode, nil)
		}
		return nil, classifyTransport(err)
	}

	return &StatusSocket{session: session, conn: conn, log: c.log}, nil
}

func (c *Client) socketURL(path string) (string, error) {
	full := strings.TrimRight(c.cfg.BaseURL, "/") + c.cfg.APIPrefix + path
	u, err := url.Parse(full)
	if err != nil || u.Host == "" {
		return "", ErrInvalidURL
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", ErrInvalidURL
	}
	return u.String(), nil
}
