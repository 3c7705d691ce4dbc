package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/config"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/server"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/assistant"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/auth"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/chat"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/documents"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/research"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Warn("failed to load .env file, continuing with system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open local storage")
	}
	defer store.Close()

	authService := auth.NewService(cfg.Auth)
	chatService := chat.NewService()
	documentService := documents.NewService()

	researchService, err := research.NewService(research.Seed())
	if err != nil {
		logrus.WithError(err).Fatal("failed to build research index")
	}

	assistantService, err := assistant.NewService(ctx, cfg.AI)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize assistant service")
	}
	if assistantService.LLMEnabled() {
		logrus.Info("assistant LLM backend initialized")
	} else {
		logrus.Info("Ark credentials not configured, assistant runs in offline mode")
	}

	dispatcher := server.NewDispatcher(server.Services{
		Auth:      authService,
		Chat:      chatService,
		Documents: documentService,
		Research:  researchService,
		Assistant: assistantService,
		Store:     store,
	})

	router := server.NewRouter(dispatcher, cfg.Server)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logrus.WithField("addr", addr).Info("BEAR AI daemon listening")
	if err := runServer(ctx, srv); err != nil {
		logrus.WithError(err).Fatal("server error")
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
