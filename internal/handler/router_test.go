package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/codex-landing/backend/internal/model/page"
	"github.com/zhouzirui/codex-landing/backend/internal/responder"
	chatService "github.com/zhouzirui/codex-landing/backend/internal/service/chat"
)

func newTestRouter(t *testing.T) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	svc := chatService.NewService(chatService.NewMemoryStore(), page.Seed(), responder.Default(), logger)
	return NewRouter(svc, nil, logger), &logs
}

func TestRouterHealthz(t *testing.T) {
	r, logs := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
	assert.Contains(t, logs.String(), "request handled")
}

func TestRouterIndexAndPage(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Codex")

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/page", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRouterChatFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/session", nil))
	require.Equal(t, http.StatusCreated, resp.Code)

	var state chatService.State
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &state))

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/session/"+state.Session.ID+"/submit", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var result chatService.SubmitResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.True(t, result.Submitted)
	assert.Equal(t, responder.GreetingReply, result.Exchange.Assistant.Text)
}

func TestRouterPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
	req.Header.Set("Origin", "https://codex.example")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
}
