package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/zhouzirui/codex-landing/backend/internal/service/chat"
	"github.com/zhouzirui/codex-landing/backend/pkg/utils"
)

// Handler answers a message over Server-Sent Events
type Handler struct {
	chatSvc *chatService.Service
	logger  *slog.Logger
}

// New creates a new stream handler
func New(chatSvc *chatService.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger.With("component", "stream"),
	}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	MessageID int64  `json:"messageId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RegisterRoutes mounts the SSE endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		userMessage := r.URL.Query().Get("message")

		if userMessage == "" {
			utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
			return
		}

		if err := h.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
			h.logger.Warn("stream request failed", "session_id", sessionID, "error", err)
		}
	})
}

// HandleStreamRequest submits userMessage to the session and streams the exchange
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return fmt.Errorf("streaming unsupported")
	}

	if _, err := h.chatSvc.GetSession(ctx, sessionID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chatService.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return err
	}

	utils.SetupSSEHeaders(w)
	h.sendSSE(w, flusher, StreamResponse{Event: "start", SessionID: sessionID})

	result, err := h.chatSvc.SubmitText(ctx, sessionID, userMessage)
	if err != nil {
		h.sendSSE(w, flusher, StreamResponse{Event: "error", SessionID: sessionID, Error: err.Error()})
		return err
	}

	if result.Submitted {
		h.sendSSE(w, flusher, StreamResponse{
			Event:     "user",
			SessionID: sessionID,
			MessageID: result.Exchange.User.ID,
			Content:   result.Exchange.User.Text,
		})
		h.sendSSE(w, flusher, StreamResponse{
			Event:     "message",
			SessionID: sessionID,
			MessageID: result.Exchange.Assistant.ID,
			Content:   result.Exchange.Assistant.Text,
		})
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	h.logger.Debug("stream completed", "session_id", sessionID, "submitted", result.Submitted)
	return nil
}

// sendSSE writes response as a named event so EventSource clients can
// subscribe per event type.
func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEEvent(w, flusher, response.Event, response)
}
