package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/codex-landing/backend/internal/middleware"
	chatservice "github.com/zhouzirui/codex-landing/backend/internal/service/chat"
	"github.com/zhouzirui/codex-landing/backend/pkg/utils"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Inbound message types.
const (
	TypeDraft  = "draft"
	TypePrompt = "prompt"
	TypeSubmit = "submit"
)

// Handler WebSocket聊天处理器
type Handler struct {
	chatSvc  *chatservice.Service
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New 创建WebSocket处理器。allowedOrigins 为空时允许所有来源。
func New(chatSvc *chatservice.Service, allowedOrigins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger.With("component", "websocket"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

// Inbound is a client event: a draft edit, a quick prompt pick or a submission.
type Inbound struct {
	Type  string  `json:"type"`
	Text  *string `json:"text,omitempty"`
	Index *int    `json:"index,omitempty"`
}

// Outbound carries the session state after every event, or an error.
type Outbound struct {
	Type      string                `json:"type"`
	State     *chatservice.State    `json:"state,omitempty"`
	Submitted bool                  `json:"submitted,omitempty"`
	Exchange  *chatservice.Exchange `json:"exchange,omitempty"`
	Error     string                `json:"error,omitempty"`
	Timestamp int64                 `json:"timestamp"`
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := h.chatSvc.State(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, chatservice.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	h.logger.Info("connection opened", "session_id", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})
	go pingLoop(ctx, conn)

	h.write(conn, Outbound{Type: "state", State: &state})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read failed", "session_id", sessionID, "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("invalid message", "session_id", sessionID, "error", err)
			h.write(conn, errorOutbound("invalid message format"))
			continue
		}

		h.write(conn, h.dispatch(ctx, sessionID, msg))
	}
}

func (h *Handler) dispatch(ctx context.Context, sessionID string, msg Inbound) Outbound {
	var (
		state chatservice.State
		err   error
	)
	switch msg.Type {
	case TypeDraft:
		if msg.Text == nil {
			return errorOutbound("text is required")
		}
		state, err = h.chatSvc.SetDraft(ctx, sessionID, *msg.Text)
	case TypePrompt:
		if msg.Index == nil {
			return errorOutbound("index is required")
		}
		state, err = h.chatSvc.SelectPrompt(ctx, sessionID, *msg.Index)
	case TypeSubmit:
		var result chatservice.SubmitResult
		if msg.Text != nil {
			result, err = h.chatSvc.SubmitText(ctx, sessionID, *msg.Text)
		} else {
			result, err = h.chatSvc.Submit(ctx, sessionID)
		}
		if err == nil {
			return Outbound{
				Type:      "state",
				State:     &result.State,
				Submitted: result.Submitted,
				Exchange:  result.Exchange,
			}
		}
	default:
		return errorOutbound("unknown message type: " + msg.Type)
	}

	if err != nil {
		if !errors.Is(err, chatservice.ErrPromptNotFound) && !errors.Is(err, chatservice.ErrSessionNotFound) {
			h.logger.Error("event failed", "session_id", sessionID, "type", msg.Type, "error", err)
			return errorOutbound("internal error")
		}
		return errorOutbound(err.Error())
	}
	return Outbound{Type: "state", State: &state}
}

func errorOutbound(message string) Outbound {
	return Outbound{Type: "error", Error: message}
}

func (h *Handler) write(conn *websocket.Conn, msg Outbound) {
	msg.Timestamp = time.Now().Unix()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn("write failed", "error", err)
	}
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
