package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/antonkuprin/medilink/internal/client/models"
)

func newTestClient(t *testing.T, baseURL string, auth Authenticator) *Client {
	t.Helper()
	cfg := testConfig(baseURL)
	lg := testLogger()
	monitor := NewConnectivityMonitor(cfg, lg)
	retry := NewRetryPolicy(cfg.MaxAttempts, cfg.AuthRetryDelay, cfg.BackoffStep)
	return &Client{
		cfg:      cfg,
		log:      lg,
		Pipeline: NewPipeline(cfg, auth, monitor, retry, lg),
		Monitor:  monitor,
	}
}

func sseHandler(t *testing.T, lines []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n", line)
			flusher.Flush()
		}
	}
}

func TestChatStream_YieldsChunksInOrder(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		`data: {"type":"token","content":"Take "}`,
		``,
		`data: {"type":"token","content":"two aspirin"}`,
		`data: {"type":"complete"}`,
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeAuth{token: validToken()})
	session := NewStreamSession("chan-1")

	stream, err := c.OpenChatStream(context.Background(), session, RolePatient, "what should I take?")
	require.NoError(t, err)
	defer stream.Close()

	var got []string
	for {
		chunk, rerr := stream.Recv()
		if rerr == io.EOF {
			break
		}
		require.NoError(t, rerr)
		if chunk.Type == models.ChunkTypeToken {
			got = append(got, chunk.Content)
		}
		if chunk.Terminal() {
			require.Equal(t, models.ChunkTypeComplete, chunk.Type)
		}
	}
	require.Equal(t, []string{"Take ", "two aspirin"}, got)
}

func TestChatStream_SkipsMalformedLines(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		`data: {"type":"token","content":"a"}`,
		`data: {not json`,
		`: keepalive comment`,
		`data: {"type":"token","content":"b"}`,
		`data: {"type":"complete"}`,
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeAuth{token: validToken()})
	stream, err := c.OpenChatStream(context.Background(), NewStreamSession("chan-1"), RolePatient, "hi")
	require.NoError(t, err)
	defer stream.Close()

	var tokens []string
	for {
		chunk, rerr := stream.Recv()
		if rerr == io.EOF {
			break
		}
		require.NoError(t, rerr)
		if chunk.Type == models.ChunkTypeToken {
			tokens = append(tokens, chunk.Content)
		}
	}
	require.Equal(t, []string{"a", "b"}, tokens)
}

func TestChatStream_TerminalChunkEndsStream(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		`data: {"type":"error","detail":"model overloaded"}`,
		`data: {"type":"token","content":"never seen"}`,
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeAuth{token: validToken()})
	stream, err := c.OpenChatStream(context.Background(), NewStreamSession("chan-1"), RolePatient, "hi")
	require.NoError(t, err)

	chunk, err := stream.Recv()
	require.NoError(t, err)
	require.Equal(t, models.ChunkTypeError, chunk.Type)
	require.Equal(t, "model overloaded", chunk.Detail)
	require.True(t, chunk.Terminal())

	_, err = stream.Recv()
	require.ErrorIs(t, err, io.EOF)

	// Close after the terminal chunk is a no-op.
	require.NoError(t, stream.Close())
}

func TestChatStream_EndWithoutTerminalChunk(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		`data: {"type":"token","content":"half an ans`,
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeAuth{token: validToken()})
	stream, err := c.OpenChatStream(context.Background(), NewStreamSession("chan-1"), RolePatient, "hi")
	require.NoError(t, err)
	defer stream.Close()

	chunk, err := stream.Recv()
	require.NoError(t, err)
	require.Equal(t, models.ChunkTypeToken, chunk.Type)

	_, err = stream.Recv()
	require.ErrorIs(t, err, io.EOF)
}

func TestOpenChatStream_SendsSessionAndMessage(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		require.Equal(t, "/api/v1/consultations/chan-9/stream", r.URL.Path)
		fmt.Fprintln(w, `data: {"type":"complete"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeAuth{token: validToken()})
	session := NewStreamSession("chan-9")

	stream, err := c.OpenChatStream(context.Background(), session, RolePatient, "are my results in?")
	require.NoError(t, err)
	defer stream.Close()

	require.Equal(t, session.SessionID, gotQuery["session_id"][0])
	require.Equal(t, "are my results in?", gotQuery["message"][0])
	require.Equal(t, session, stream.Session())
}

func TestOpenChatStream_ServerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"consultation closed"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeAuth{token: validToken()})
	_, err := c.OpenChatStream(context.Background(), NewStreamSession("chan-1"), RolePatient, "hi")

	var se *ServerError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusForbidden, se.StatusCode)
	require.Equal(t, "consultation closed", se.Detail)
}

func TestNewStreamSession_UniqueIDs(t *testing.T) {
	a := NewStreamSession("chan-1")
	b := NewStreamSession("chan-1")
	require.NotEqual(t, a.SessionID, b.SessionID)
	require.Equal(t, "chan-1", a.ChannelID)
}
