package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/eunoia/backend/internal/config"
	"github.com/zhouzirui/eunoia/backend/internal/handler"
	"github.com/zhouzirui/eunoia/backend/internal/model/persona"
	"github.com/zhouzirui/eunoia/backend/internal/pkg/logger"
	"github.com/zhouzirui/eunoia/backend/internal/repository/contract"
	"github.com/zhouzirui/eunoia/backend/internal/repository/implementation"
	"github.com/zhouzirui/eunoia/backend/internal/repository/memory"
	"github.com/zhouzirui/eunoia/backend/internal/service/ai"
	"github.com/zhouzirui/eunoia/backend/internal/service/chat"
	"github.com/zhouzirui/eunoia/backend/internal/service/companion"
	"github.com/zhouzirui/eunoia/backend/internal/service/mood"
	"github.com/zhouzirui/eunoia/backend/internal/service/sentiment"
	"github.com/zhouzirui/eunoia/backend/pkg/database"
)

const logModule = "main"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.Log.FilePath, cfg.Log.Production)
	defer func() { _ = appLogger.Sync() }()

	turns, samples, err := newRepositories(cfg.Database, appLogger)
	if err != nil {
		appLogger.Error(logModule, "failed to initialize storage", map[string]interface{}{"error": err})
		os.Exit(1)
	}

	personaStore := persona.NewMemoryStore(persona.Seed())
	chatService := chat.NewService(turns)

	sentimentService := sentiment.NewService(cfg.Sentiment, appLogger)
	if !sentimentService.Enabled() {
		appLogger.Warn(logModule, "sentiment API key not configured, using keyword heuristic", nil)
	}

	completer, err := ai.NewCompleter(ctx, cfg.AI)
	if err != nil {
		appLogger.Warn(logModule, "failed to initialize AI provider, using keyword rules", map[string]interface{}{"error": err.Error()})
		completer = nil
	}
	companionService := companion.NewService(completer, personaStore, appLogger)
	if companionService.Enabled() {
		appLogger.Info(logModule, "AI provider initialized", map[string]interface{}{"provider": cfg.AI.Provider})
	} else {
		appLogger.Warn(logModule, "AI credentials not configured, using keyword rules", nil)
	}

	moodService := mood.NewService(chatService, samples, sentimentService, cfg.Cache.MoodHistoryTTL, appLogger)

	router := handler.NewRouter(cfg.Server.AllowedOrigins, handler.Services{
		Personas:  personaStore,
		Chat:      chatService,
		Companion: companionService,
		Mood:      moodService,
		Log:       appLogger,
	})

	startServer(ctx, cfg.Server, router, appLogger)
}

// newRepositories uses PostgreSQL when DATABASE_URL is set and in-memory stores otherwise.
func newRepositories(cfg config.DatabaseConfig, appLogger logger.Logger) (contract.ChatTurnRepository, contract.MoodSampleRepository, error) {
	if !cfg.Enabled() {
		appLogger.Warn(logModule, "DATABASE_URL not set, chat and mood data will not survive a restart", nil)
		return memory.NewChatTurnRepository(), memory.NewMoodSampleRepository(), nil
	}

	db, err := database.NewGormDBFromDSN(cfg.DSN, appLogger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.AutoMigrate {
		if err := implementation.AutoMigrate(db); err != nil {
			return nil, nil, err
		}
	}

	appLogger.Info(logModule, "connected to PostgreSQL", nil)
	return implementation.NewChatTurnRepository(db), implementation.NewMoodSampleRepository(db), nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, appLogger logger.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	appLogger.Info(logModule, "Eunoia backend listening", map[string]interface{}{"addr": addr})
	if err := runServer(ctx, srv); err != nil {
		appLogger.Error(logModule, "server error", map[string]interface{}{"error": err})
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
