package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/zhouzirui/codex-landing/backend/internal/model/chat"
	"github.com/zhouzirui/codex-landing/backend/internal/model/page"
	"github.com/zhouzirui/codex-landing/backend/internal/responder"
	chatservice "github.com/zhouzirui/codex-landing/backend/internal/service/chat"
)

func startServer(t *testing.T, origins []string) (*httptest.Server, string) {
	t.Helper()
	chatSvc := chatservice.NewService(nil, page.Seed(), responder.Default(), nil)
	state, err := chatSvc.CreateSession(context.Background())
	require.NoError(t, err)

	r := chi.NewRouter()
	New(chatSvc, origins, nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, state.Session.ID
}

func dial(t *testing.T, srv *httptest.Server, sessionID string, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readOutbound(t *testing.T, conn *websocket.Conn) Outbound {
	t.Helper()
	var out Outbound
	require.NoError(t, conn.ReadJSON(&out))
	return out
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestWebSocketInitialState(t *testing.T) {
	srv, sessionID := startServer(t, nil)
	conn := dial(t, srv, sessionID, nil)

	out := readOutbound(t, conn)
	assert.Equal(t, "state", out.Type)
	require.NotNil(t, out.State)
	assert.Len(t, out.State.Messages, 1)
	assert.Equal(t, "Привіт, ти хто?", out.State.Draft)
}

func TestWebSocketPromptThenSubmit(t *testing.T) {
	srv, sessionID := startServer(t, nil)
	conn := dial(t, srv, sessionID, nil)
	readOutbound(t, conn)

	require.NoError(t, conn.WriteJSON(Inbound{Type: TypePrompt, Index: intPtr(1)}))
	out := readOutbound(t, conn)
	require.NotNil(t, out.State)
	assert.Equal(t, "Як ти працюєш автономно?", out.State.Draft)

	require.NoError(t, conn.WriteJSON(Inbound{Type: TypeSubmit}))
	out = readOutbound(t, conn)
	assert.True(t, out.Submitted)
	require.NotNil(t, out.Exchange)
	assert.Equal(t, model.SenderUser, out.Exchange.User.Sender)
	assert.Equal(t, responder.WorkflowReply, out.Exchange.Assistant.Text)
	assert.Empty(t, out.State.Draft)
	assert.Len(t, out.State.Messages, 3)
}

func TestWebSocketDraftAndBlankSubmit(t *testing.T) {
	srv, sessionID := startServer(t, nil)
	conn := dial(t, srv, sessionID, nil)
	readOutbound(t, conn)

	require.NoError(t, conn.WriteJSON(Inbound{Type: TypeDraft, Text: strPtr(" ")}))
	out := readOutbound(t, conn)
	assert.Equal(t, " ", out.State.Draft)

	require.NoError(t, conn.WriteJSON(Inbound{Type: TypeSubmit}))
	out = readOutbound(t, conn)
	assert.False(t, out.Submitted)
	assert.Nil(t, out.Exchange)
	assert.Len(t, out.State.Messages, 1)
}

func TestWebSocketErrors(t *testing.T) {
	srv, sessionID := startServer(t, nil)
	conn := dial(t, srv, sessionID, nil)
	readOutbound(t, conn)

	require.NoError(t, conn.WriteJSON(Inbound{Type: "dance"}))
	assert.Equal(t, "error", readOutbound(t, conn).Type)

	require.NoError(t, conn.WriteJSON(Inbound{Type: TypePrompt, Index: intPtr(5)}))
	out := readOutbound(t, conn)
	assert.Equal(t, "error", out.Type)
	assert.Contains(t, out.Error, "quick prompt not found")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, "invalid message format", readOutbound(t, conn).Error)

	// Well-formed JSON with the wrong shape keeps the connection open.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"prompt","index":"first"}`)))
	assert.Equal(t, "invalid message format", readOutbound(t, conn).Error)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`["submit"]`)))
	assert.Equal(t, "invalid message format", readOutbound(t, conn).Error)

	require.NoError(t, conn.WriteJSON(Inbound{Type: TypePrompt, Index: intPtr(0)}))
	out = readOutbound(t, conn)
	assert.Equal(t, "state", out.Type)
	assert.Equal(t, "Що ти вмієш?", out.State.Draft)
}

func TestWebSocketBlankSubmitTextKeepsDraft(t *testing.T) {
	srv, sessionID := startServer(t, nil)
	conn := dial(t, srv, sessionID, nil)
	readOutbound(t, conn)

	require.NoError(t, conn.WriteJSON(Inbound{Type: TypeSubmit, Text: strPtr("   ")}))
	out := readOutbound(t, conn)
	assert.False(t, out.Submitted)
	assert.Equal(t, "Привіт, ти хто?", out.State.Draft)
	assert.Len(t, out.State.Messages, 1)
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv, _ := startServer(t, nil)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/missing"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	srv, sessionID := startServer(t, []string{"https://codex.example"})
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + sessionID

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
