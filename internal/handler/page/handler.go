package page

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/codex-landing/backend/internal/model/page"
	"github.com/zhouzirui/codex-landing/backend/pkg/utils"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Handler page服务的HTTP处理器
type Handler struct {
	content page.Content
	logger  *slog.Logger
}

// New 创建page处理器
func New(content page.Content, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		content: content,
		logger:  logger.With("component", "page-handler"),
	}
}

// RegisterRoutes 注册页面内容接口
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/page", h.handleContent)
}

// handleContent 返回静态页面文案
func (h *Handler) handleContent(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.content.Clone())
}

// ServeIndex renders the landing page with the chat widget.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, h.content); err != nil {
		h.logger.Error("failed to render index", "error", err)
	}
}
