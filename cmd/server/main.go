package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/semaphore"

	"github.com/nyayasetu/ai-backend/internal/config"
	"github.com/nyayasetu/ai-backend/internal/db"
	"github.com/nyayasetu/ai-backend/internal/engine"
	httpapi "github.com/nyayasetu/ai-backend/internal/http"
	"github.com/nyayasetu/ai-backend/internal/redact"
	"github.com/nyayasetu/ai-backend/internal/service"
	"github.com/nyayasetu/ai-backend/internal/storage"
)

// logLevel parses LOG_LEVEL, reporting whether the value was recognized.
// Unknown values fall back to info rather than zerolog's NoLevel.
func logLevel(s string) (zerolog.Level, bool) {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return level, true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, known := logLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "odr-ai-backend").Logger()
	if !known {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown LOG_LEVEL, falling back to info")
	}

	ctx := context.Background()

	var store *db.Store
	if cfg.DatabaseURL != "" {
		store, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure schema")
		}
	} else {
		logger.Info().Msg("no DATABASE_URL, history disabled")
	}

	var engines []engine.Engine
	if cfg.OpenAIAPIKey != "" {
		engines = append(engines, engine.NewOpenAIEngine(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.DefaultAIModel))
	}
	if cfg.GroqAPIKey != "" {
		engines = append(engines, engine.NewGroqEngine(cfg.GroqAPIKey, cfg.GroqBaseURL, ""))
	}
	if cfg.GeminiAPIKey != "" {
		engines = append(engines, engine.NewGeminiEngine(cfg.GeminiAPIKey, cfg.GeminiBaseURL, ""))
	}
	if cfg.EngineMock {
		engines = append(engines, engine.MockEngine{ModelVersion: "mock-v1"})
		logger.Info().Msg("mock AI engine enabled")
	}
	if len(engines) == 0 {
		logger.Warn().Msg("no AI providers configured, generation requests will fail")
	}
	manager := engine.NewManager(cfg.DefaultAIProvider, logger, engines...)

	var audio *openai.Client
	if cfg.OpenAIAPIKey != "" {
		audioCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIBaseURL != "" {
			audioCfg.BaseURL = cfg.OpenAIBaseURL
		}
		audio = openai.NewClientWithConfig(audioCfg)
	} else {
		logger.Info().Msg("no OPENAI_API_KEY, transcription disabled")
	}

	files, err := storage.New(cfg.UploadDir, cfg.ProcessedDir, cfg.MaxUploadBytes())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare storage")
	}

	sem := semaphore.NewWeighted(cfg.AIConcurrency)

	filing := &service.FilingService{
		Manager:  manager,
		Store:    store,
		Redactor: redact.New(),
		Logger:   logger,
		Sem:      sem,
	}
	transcription := &service.TranscriptionService{
		Files:        files,
		Audio:        audio,
		WhisperModel: cfg.WhisperModel,
		Manager:      manager,
		Store:        store,
		Logger:       logger,
		Sem:          sem,
	}
	hearing := &service.HearingService{
		Files:       files,
		Transcriber: transcription,
		Manager:     manager,
		Store:       store,
		Logger:      logger,
		Sem:         sem,
	}

	router := httpapi.Router(cfg, httpapi.Deps{
		Filing:        filing,
		Transcription: transcription,
		Hearing:       hearing,
		Files:         files,
		Manager:       manager,
		Store:         store,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Generation and transcription calls dominate request latency.
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Strs("providers", manager.Providers()).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
