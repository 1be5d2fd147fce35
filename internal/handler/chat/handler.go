package chat

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/zhouzirui/codex-landing/backend/internal/service/chat"
	"github.com/zhouzirui/codex-landing/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
	logger  *slog.Logger
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger.With("component", "chat-handler"),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetState)
		r.Get("/messages", h.handleTranscript)
		r.Put("/draft", h.handleSetDraft)
		r.Post("/prompt", h.handleSelectPrompt)
		r.Post("/submit", h.handleSubmit)
	})
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, state)
}

func (h *Handler) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.chatSvc.State(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, state)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatSvc.LoadTranscript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *Handler) handleSetDraft(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Draft *string `json:"draft"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Draft == nil {
		utils.RespondError(w, http.StatusBadRequest, "draft is required")
		return
	}

	state, err := h.chatSvc.SetDraft(r.Context(), chi.URLParam(r, "sessionID"), *payload.Draft)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, state)
}

// handleSelectPrompt 选择快捷提示
func (h *Handler) handleSelectPrompt(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Index == nil {
		utils.RespondError(w, http.StatusBadRequest, "index is required")
		return
	}

	state, err := h.chatSvc.SelectPrompt(r.Context(), chi.URLParam(r, "sessionID"), *payload.Index)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, state)
}

// handleSubmit 提交草稿；请求体可选，携带 text 时先替换草稿。
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	var (
		result chatService.SubmitResult
		err    error
	)
	if payload.Text != nil {
		result, err = h.chatSvc.SubmitText(r.Context(), sessionID, *payload.Text)
	} else {
		result, err = h.chatSvc.Submit(r.Context(), sessionID)
	}
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chatService.ErrPromptNotFound):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("chat request failed", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
