package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/codex-landing/backend/internal/handler/chat"
	"github.com/zhouzirui/codex-landing/backend/internal/handler/page"
	"github.com/zhouzirui/codex-landing/backend/internal/handler/stream"
	"github.com/zhouzirui/codex-landing/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/codex-landing/backend/internal/middleware"
	chatService "github.com/zhouzirui/codex-landing/backend/internal/service/chat"
	"github.com/zhouzirui/codex-landing/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, allowedOrigins []string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	// Create handlers
	pageHandler := page.New(chatSvc.Content(), logger)
	chatHandler := chat.New(chatSvc, logger)
	streamHandler := stream.New(chatSvc, logger)
	wsHandler := ws.New(chatSvc, allowedOrigins, logger)

	r.Get("/", pageHandler.ServeIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		pageHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
