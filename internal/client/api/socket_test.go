package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

func statusServer(t *testing.T, serve func(*websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		serve(conn)
	}))
}

func TestStatusSocket_ReceivesMessages(t *testing.T) {
	srv := statusServer(t, func(conn *websocket.Conn) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"type":"status","status":"doctor_typing"}`)))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"type":"status","status":"doctor_joined"}`)))
		require.NoError(t, conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second)))
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeAuth{token: validToken()})
	sock, err := c.OpenStatusSocket(context.Background(), NewStreamSession("chan-1"), RolePatient)
	require.NoError(t, err)
	defer sock.Close()

	msg, err := sock.Recv()
	require.NoError(t, err)
	require.Equal(t, "doctor_typing", msg.Status)

	msg, err = sock.Recv()
	require.NoError(t, err)
	require.Equal(t, "doctor_joined", msg.Status)

	_, err = sock.Recv()
	require.ErrorIs(t, err, io.EOF)
}

func TestStatusSocket_SkipsBinaryAndMalformedFrames(t *testing.T) {
	srv := statusServer(t, func(conn *websocket.Conn) {
		require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{broken`)))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"type":"status","status":"session_resumed"}`)))
		require.NoError(t, conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(time.Second)))
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeAuth{token: validToken()})
	sock, err := c.OpenStatusSocket(context.Background(), NewStreamSession("chan-1"), RolePatient)
	require.NoError(t, err)
	defer sock.Close()

	msg, err := sock.Recv()
	require.NoError(t, err)
	require.Equal(t, "session_resumed", msg.Status)

	_, err = sock.Recv()
	require.ErrorIs(t, err, io.EOF)
}

func TestOpenStatusSocket_AuthFailure(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	c := &Client{cfg: cfg, log: testLogger()}
	// No stored doctor token and no way to mint one: the dial must fail
	// before any network activity.
	c.Auth = NewAuthController(cfg, testDB(t), testLogger())
	c.Auth.attach(&scriptedExec{responses: map[string][]scriptedResponse{}})

	_, err := c.OpenStatusSocket(context.Background(), NewStreamSession("chan-1"), RoleDoctor)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestSocketURL_SchemeRewrite(t *testing.T) {
	cfg := testConfig("https://api.medilink.example")
	c := &Client{cfg: cfg}

	u, err := c.socketURL("/consultations/chan-1/status")
	require.NoError(t, err)
	require.Equal(t, "wss://api.medilink.example/api/v1/consultations/chan-1/status", u)

	cfg.BaseURL = "http://localhost:8000"
	u, err = c.socketURL("/consultations/chan-1/status")
	require.NoError(t, err)
	require.Equal(t, "ws://localhost:8000/api/v1/consultations/chan-1/status", u)

	cfg.BaseURL = "ftp://nope"
	_, err = c.socketURL("/x")
	require.ErrorIs(t, err, ErrInvalidURL)
}
