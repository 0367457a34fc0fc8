package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aitutor/tutor-api/internal/assessment"
	"github.com/aitutor/tutor-api/internal/audit"
	auth "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/cache"
	"github.com/aitutor/tutor-api/internal/chat"
	"github.com/aitutor/tutor-api/internal/config"
	"github.com/aitutor/tutor-api/internal/content"
	"github.com/aitutor/tutor-api/internal/db"
	"github.com/aitutor/tutor-api/internal/llm"
	"github.com/aitutor/tutor-api/internal/logger"
	"github.com/aitutor/tutor-api/internal/progress"
	"github.com/aitutor/tutor-api/internal/seed"
	"github.com/aitutor/tutor-api/internal/storage"
	"github.com/aitutor/tutor-api/internal/users"

	api "github.com/aitutor/tutor-api/internal/api/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	adapter, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN, log)
	if err != nil {
		return err
	}
	defer adapter.Close()

	auditLog := audit.NewLog(adapter)
	userStore := users.NewStore(adapter)
	contentStore := content.NewStore(adapter, auditLog)
	chatStore := chat.NewStore(adapter)

	// --- metadata cache ---
	var metaCache cache.Cache = cache.NewMemory(cfg.CacheTTL)
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL, log)
		if err != nil {
			log.Warn("redis unavailable, using in-process cache", "error", err)
		} else {
			defer rc.Close()
			metaCache = rc
		}
	}

	// --- uploads ---
	blobs, err := storage.NewFSStore(cfg.BlobBasePath, "/api/uploads")
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}

	// --- tutor ---
	var provider llm.Provider = llm.Unconfigured{}
	if cfg.LLMAPIKey != "" {
		provider = llm.NewOpenAIProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	} else {
		log.Warn("LLM_API_KEY not set; chat will answer 502")
	}

	if cfg.SeedDemo {
		if _, err := seed.Run(ctx, userStore, contentStore, log); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	handler := api.NewRouter(api.Deps{
		DB:           adapter,
		Auth:         auth.NewAuthService(cfg.JWTSecret, cfg.TokenTTL),
		Users:        userStore,
		Content:      contentStore,
		Progress:     progress.NewStore(adapter),
		Assessments:  assessment.NewStore(adapter),
		Chats:        chatStore,
		Tutor:        chat.NewTutor(chatStore, provider, log),
		Audit:        auditLog,
		Cache:        metaCache,
		Blobs:        blobs,
		Log:          log,
		CookieSecure: cfg.CookieSecure,
		CORSOrigins:  cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver, "llm", provider.Name())
		errc <- server.ListenAndServe()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case sig := <-sigc:
		log.Info("shutting down", "signal", sig.String())
		sctx, scancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer scancel()
		if err := server.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
			return server.Close()
		}
	}
	return nil
}
