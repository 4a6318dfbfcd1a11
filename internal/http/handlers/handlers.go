package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nyayasetu/ai-backend/internal/db"
	"github.com/nyayasetu/ai-backend/internal/engine"
	"github.com/nyayasetu/ai-backend/internal/models"
	"github.com/nyayasetu/ai-backend/internal/service"
	"github.com/nyayasetu/ai-backend/internal/storage"
)

type Handler struct {
	Filing        *service.FilingService
	Transcription *service.TranscriptionService
	Hearing       *service.HearingService
	Files         *storage.Handler
	Manager       *engine.Manager
	Store         *db.Store
	Validator     *validator.Validate
	Logger        zerolog.Logger
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "ODR AI backend is running",
		"version": "1.0.0",
		"status":  "healthy",
	})
}

// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	engines := gin.H{}
	for name, available := range h.Manager.Status(c.Request.Context()) {
		engines[name] = gin.H{"available": available}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"ai_engines": engines,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// @Summary Filing suggestions
// @Description AI suggestions for case type, documents, field hints and urgency
// @Tags filing
// @Accept json
// @Produce json
// @Param request body models.FilingRequest true "Filing request"
// @Success 201 {object} models.FilingResponse
// @Failure 400 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /api/v1/filing/suggestions [post]
func (h *Handler) FilingSuggestions(c *gin.Context) {
	var req models.FilingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	resp, err := h.Filing.GetFilingSuggestions(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, resp)
	case errors.Is(err, service.ErrBadProviderJSON):
		// The provider answered but the shape was unusable; callers still
		// get a well-formed, clearly degraded suggestion set.
		h.Logger.Warn().Err(err).Msg("substituting default filing suggestions")
		c.JSON(http.StatusCreated, models.FilingResponse{
			RequestID:   uuid.NewString(),
			Suggestions: service.DefaultSuggestions(),
			Metadata: map[string]any{
				"degraded":  true,
				"reason":    "upstream response format error",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			},
		})
	case errors.Is(err, engine.ErrAllProvidersUnavailable):
		writeError(c, http.StatusServiceUnavailable, "PROVIDERS_UNAVAILABLE", "All AI providers are unavailable", nil)
	default:
		writeError(c, http.StatusInternalServerError, "FILING_ERROR", "Failed to process filing request", err.Error())
	}
}

func (h *Handler) FilingHealth(c *gin.Context) {
	serviceHealth(c, "filing")
}

// @Summary Upload audio for transcription
// @Tags transcription
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "audio file"
// @Param category formData string false "file category"
// @Success 201 {object} models.UploadedFile
// @Failure 400 {object} map[string]any
// @Router /api/v1/transcription/upload [post]
func (h *Handler) UploadTranscription(c *gin.Context) {
	category := c.DefaultPostForm("category", "audio")
	h.upload(c, category)
}

func (h *Handler) UploadHearing(c *gin.Context) {
	h.upload(c, "video")
}

func (h *Handler) upload(c *gin.Context, category string) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read file", err.Error())
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read file", err.Error())
		return
	}

	meta, err := h.Files.Save(content, fileHeader.Filename, category)
	if err != nil {
		if errors.Is(err, storage.ErrInvalid) {
			writeError(c, http.StatusBadRequest, "INVALID_FILE", err.Error(), nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store file", err.Error())
		return
	}

	if h.Store != nil {
		if err := h.Store.InsertUploadedFile(c.Request.Context(), meta); err != nil {
			h.Logger.Warn().Err(err).Str("file_id", meta.FileID).Msg("file metadata write failed")
		}
	}
	c.JSON(http.StatusCreated, meta)
}

// @Summary Transcribe an uploaded file
// @Tags transcription
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "file id"
// @Param language formData string false "language code"
// @Param timestamps formData string false "include segment timestamps"
// @Success 200 {object} map[string]any
// @Router /api/v1/transcription/transcribe/{id} [post]
func (h *Handler) Transcribe(c *gin.Context) {
	fileID := c.Param("id")
	timestamps := parseBool(c.DefaultPostForm("timestamps", "true"))
	opts := service.TranscribeOptions{
		Language:   c.PostForm("language"),
		Timestamps: timestamps,
	}

	start := time.Now()
	result, err := h.Transcription.Transcribe(c.Request.Context(), fileID, opts)
	if err != nil {
		h.writeProcessingError(c, fileID, "TRANSCRIPTION_ERROR", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"file_id":            fileID,
		"result":             result,
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
}

func (h *Handler) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, service.SupportedLanguages())
}

func (h *Handler) FormatTranscript(c *gin.Context) {
	var req models.TranscriptFormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	resp, err := h.Transcription.FormatTranscript(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, service.ErrBadProviderJSON):
		writeError(c, http.StatusBadGateway, "UPSTREAM_FORMAT_ERROR", "Provider returned an unusable response", err.Error())
	case errors.Is(err, engine.ErrAllProvidersUnavailable):
		writeError(c, http.StatusServiceUnavailable, "PROVIDERS_UNAVAILABLE", "All AI providers are unavailable", nil)
	default:
		writeError(c, http.StatusInternalServerError, "FORMAT_ERROR", "Failed to format transcript", err.Error())
	}
}

func (h *Handler) TranscriptionHealth(c *gin.Context) {
	serviceHealth(c, "transcription")
}

// @Summary Analyze an uploaded hearing recording
// @Tags hearing
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "file id"
// @Param analysis_type formData string false "analysis type"
// @Param provider formData string false "preferred AI provider"
// @Success 200 {object} service.HearingResult
// @Router /api/v1/hearing/analyze/{id} [post]
func (h *Handler) AnalyzeHearing(c *gin.Context) {
	fileID := c.Param("id")
	opts := service.AnalyzeOptions{
		AnalysisType: c.DefaultPostForm("analysis_type", "comprehensive"),
		Provider:     c.PostForm("provider"),
		Language:     c.PostForm("language"),
	}

	result, err := h.Hearing.AnalyzeHearing(c.Request.Context(), fileID, opts)
	if err != nil {
		h.writeProcessingError(c, fileID, "HEARING_ANALYSIS_ERROR", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) HearingHealth(c *gin.Context) {
	serviceHealth(c, "hearing")
}

// @Summary Delete an uploaded file
// @Tags files
// @Produce json
// @Param id path string true "file id"
// @Success 200 {object} map[string]any
// @Router /api/v1/files/{id} [delete]
func (h *Handler) DeleteFile(c *gin.Context) {
	fileID := c.Param("id")
	existed, err := h.Files.Delete(fileID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to delete file", err.Error())
		return
	}
	if h.Store != nil && existed {
		if err := h.Store.UpdateFileStatus(c.Request.Context(), fileID, models.FileStatusDeleted); err != nil {
			h.Logger.Warn().Err(err).Str("file_id", fileID).Msg("file status update failed")
		}
	}
	message := "File deleted"
	if !existed {
		message = "File not found"
	}
	c.JSON(http.StatusOK, gin.H{"success": existed, "message": message})
}

func (h *Handler) History(c *gin.Context) {
	if h.Store == nil {
		writeError(c, http.StatusServiceUnavailable, "HISTORY_UNAVAILABLE", "History store is not configured", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.Store.ListActivities(c.Request.Context(), c.Query("kind"), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list history", err.Error())
		return
	}
	if items == nil {
		items = []models.Activity{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) writeProcessingError(c *gin.Context, fileID string, code string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "File not found", nil)
	case errors.Is(err, storage.ErrInvalid):
		writeError(c, http.StatusBadRequest, "INVALID_FILE", err.Error(), nil)
	case errors.Is(err, service.ErrTranscriptionUnavailable):
		writeError(c, http.StatusServiceUnavailable, "TRANSCRIPTION_UNAVAILABLE", "Transcription engine is not configured", nil)
	case errors.Is(err, service.ErrBadProviderJSON):
		writeError(c, http.StatusBadGateway, "UPSTREAM_FORMAT_ERROR", "Provider returned an unusable response", err.Error())
	case errors.Is(err, engine.ErrAllProvidersUnavailable):
		writeError(c, http.StatusServiceUnavailable, "PROVIDERS_UNAVAILABLE", "All AI providers are unavailable", nil)
	default:
		h.Logger.Error().Err(err).Str("file_id", fileID).Msg("processing failed")
		writeError(c, http.StatusInternalServerError, code, "Processing failed", err.Error())
	}
}

func serviceHealth(c *gin.Context, name string) {
	c.JSON(http.StatusOK, gin.H{
		"service":   name,
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
