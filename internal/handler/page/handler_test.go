package page

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/codex-landing/backend/internal/model/page"
)

func TestHandleContent(t *testing.T) {
	handler := New(page.Seed(), nil)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/page", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var got page.Content
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, page.Seed(), got)
}

func TestServeIndex(t *testing.T) {
	handler := New(page.Seed(), nil)

	resp := httptest.NewRecorder()
	handler.ServeIndex(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
	body := resp.Body.String()
	assert.Contains(t, body, "Постав запитання")
	assert.Contains(t, body, "Які технології підтримуєш?")
	assert.Contains(t, body, "Задоволених команд")
	// Failed API calls must not reach render.
	assert.Contains(t, body, "if (!resp.ok || !data)")
	assert.Contains(t, body, "if (!sessionID) return;")
}
