package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/codex-landing/backend/internal/config"
	"github.com/zhouzirui/codex-landing/backend/internal/handler"
	"github.com/zhouzirui/codex-landing/backend/internal/logger"
	"github.com/zhouzirui/codex-landing/backend/internal/model/page"
	"github.com/zhouzirui/codex-landing/backend/internal/responder"
	"github.com/zhouzirui/codex-landing/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log, err := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(log)

	if envErr != nil {
		log.Debug("no .env file loaded, using system environment only", "error", envErr)
	}

	store, closeStore, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		log.Error("failed to open session store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	chatService := chat.NewService(store, page.Seed(), responder.Default(), log)
	router := handler.NewRouter(chatService, cfg.Server.AllowedOrigins, log)

	startServer(ctx, cfg.Server, router, log)
}

func openStore(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (chat.Store, func(), error) {
	if cfg.Backend != config.StoreRedis {
		log.Info("using in-memory session store")
		return chat.NewMemoryStore(), func() {}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := chat.OpenRedis(pingCtx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using redis session store", "ttl", cfg.TTL)
	return chat.NewRedisStore(client, cfg.TTL), func() {
		if err := client.Close(); err != nil {
			log.Warn("failed to close redis client", "error", err)
		}
	}, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, log *slog.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("Codex landing listening", "addr", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
