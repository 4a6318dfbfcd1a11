package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nyayasetu/ai-backend/internal/config"
	"github.com/nyayasetu/ai-backend/internal/db"
	"github.com/nyayasetu/ai-backend/internal/engine"
	"github.com/nyayasetu/ai-backend/internal/http/handlers"
	"github.com/nyayasetu/ai-backend/internal/http/middleware"
	"github.com/nyayasetu/ai-backend/internal/service"
	"github.com/nyayasetu/ai-backend/internal/storage"

	_ "github.com/nyayasetu/ai-backend/docs"
)

type Deps struct {
	Filing        *service.FilingService
	Transcription *service.TranscriptionService
	Hearing       *service.HearingService
	Files         *storage.Handler
	Manager       *engine.Manager
	Store         *db.Store
}

func Router(cfg config.Config, deps Deps, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
	r.MaxMultipartMemory = cfg.MaxUploadBytes()

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Filing:        deps.Filing,
		Transcription: deps.Transcription,
		Hearing:       deps.Hearing,
		Files:         deps.Files,
		Manager:       deps.Manager,
		Store:         deps.Store,
		Validator:     validator.New(),
		Logger:        logger,
	}

	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		filing := api.Group("/filing")
		{
			filing.POST("/suggestions", h.FilingSuggestions)
			filing.GET("/health", h.FilingHealth)
		}

		transcription := api.Group("/transcription")
		{
			transcription.POST("/upload", h.UploadTranscription)
			transcription.POST("/transcribe/:id", h.Transcribe)
			transcription.GET("/languages", h.Languages)
			transcription.POST("/format", h.FormatTranscript)
			transcription.GET("/health", h.TranscriptionHealth)
		}

		hearing := api.Group("/hearing")
		{
			hearing.POST("/upload", h.UploadHearing)
			hearing.POST("/analyze/:id", h.AnalyzeHearing)
			hearing.GET("/health", h.HearingHealth)
		}

		api.DELETE("/files/:id", h.DeleteFile)
		api.GET("/history", h.History)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
